// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// leave_cmd.go - apply, history, pending, approve and reject commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/leavedesk-tui/internal/api"
	"github.com/jeranaias/leavedesk-tui/internal/leave"
	"github.com/jeranaias/leavedesk-tui/internal/ui/styles"
	"github.com/jeranaias/leavedesk-tui/internal/util"
)

// HandleApply submits a leave application from flags.
func HandleApply(parser *ArgParser) error {
	env, err := Setup(parser, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	req := leave.Request{
		Type:   leave.TypeAnnual,
		Reason: parser.Flag("reason"),
	}
	if v := parser.Flag("type"); v != "" {
		req.Type = leave.Type(v)
	}
	if v := parser.Flag("start"); v != "" {
		start, perr := leave.ParseDate(v)
		if perr != nil {
			return fmt.Errorf("--start must be YYYY-MM-DD: %w", perr)
		}
		req.StartDate = start
	}
	if v := parser.Flag("end"); v != "" {
		end, perr := leave.ParseDate(v)
		if perr != nil {
			return fmt.Errorf("--end must be YYYY-MM-DD: %w", perr)
		}
		req.EndDate = end
	}

	// Validate recomputes the working-day duration from the calendar.
	if err := req.Validate(env.Holidays); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	env.Sessions.Restore(ctx)
	err = env.Sessions.ApplyLeave(ctx, api.ApplyLeaveRequest{
		LeaveType: string(req.Type),
		Reason:    strings.TrimSpace(req.Reason),
		StartDate: leave.FormatDate(req.StartDate),
		EndDate:   leave.FormatDate(req.EndDate),
		Duration:  req.DurationDays,
	})
	if err != nil {
		return err
	}

	fmt.Println(styles.RenderSuccess(fmt.Sprintf(
		"Application submitted: %s, %s to %s (%d working days)",
		req.Type.Label(), leave.FormatDate(req.StartDate), leave.FormatDate(req.EndDate), req.DurationDays)))
	return nil
}

// HandleHistory lists the caller's leave requests.
func HandleHistory(parser *ArgParser) error {
	env, err := Setup(parser, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	env.Sessions.Restore(ctx)
	records, err := env.Sessions.LeaveHistory(ctx)
	if err != nil {
		return err
	}

	if parser.BoolFlag("json") {
		return json.NewEncoder(os.Stdout).Encode(records)
	}
	if len(records) == 0 {
		fmt.Println("No leave requests yet.")
		return nil
	}
	printRecords(records, false)
	return nil
}

// HandlePending lists the requests awaiting manager review.
func HandlePending(parser *ArgParser) error {
	env, err := Setup(parser, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	env.Sessions.Restore(ctx)
	records, err := env.Sessions.PendingRequests(ctx)
	if err != nil {
		return err
	}

	if parser.BoolFlag("json") {
		return json.NewEncoder(os.Stdout).Encode(records)
	}
	if len(records) == 0 {
		fmt.Println("Nothing waiting for review.")
		return nil
	}
	printRecords(records, true)
	return nil
}

// HandleReview approves or rejects a pending request by id.
func HandleReview(parser *ArgParser, approve bool) error {
	id, ok := parser.PositionalInt(0)
	if !ok {
		return fmt.Errorf("a numeric request id is required")
	}

	env, err := Setup(parser, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	env.Sessions.Restore(ctx)
	if approve {
		err = env.Sessions.Approve(ctx, id)
	} else {
		err = env.Sessions.Reject(ctx, id)
	}
	if err != nil {
		return err
	}

	verdict := "rejected"
	if approve {
		verdict = "approved"
	}
	fmt.Println(styles.RenderSuccess(fmt.Sprintf("Request #%d %s", id, verdict)))
	return nil
}

// printRecords renders leave records as a fixed-width table.
func printRecords(records []api.LeaveRecord, withEmployee bool) {
	if withEmployee {
		fmt.Printf("%-5s %-18s %-13s %-11s %-11s %5s %-9s %s\n",
			"ID", "EMPLOYEE", "TYPE", "START", "END", "DAYS", "STATUS", "REASON")
	} else {
		fmt.Printf("%-5s %-13s %-11s %-11s %5s %-9s %s\n",
			"ID", "TYPE", "START", "END", "DAYS", "STATUS", "REASON")
	}
	for _, r := range records {
		status := leave.Status(r.Status).Label()
		if ColorEnabled() {
			status = styles.StatusStyle(r.Status).Render(status)
		}
		if withEmployee {
			fmt.Printf("%-5d %s %-13s %-11s %-11s %5d %-9s %s\n",
				r.ID, util.PadWidth(util.TruncateWidth(r.Employee, 18), 18), leave.Type(r.LeaveType).Label(),
				r.StartDate, r.EndDate, r.Duration, status, util.TruncateWidth(r.Reason, 40))
		} else {
			fmt.Printf("%-5d %-13s %-11s %-11s %5d %-9s %s\n",
				r.ID, leave.Type(r.LeaveType).Label(),
				r.StartDate, r.EndDate, r.Duration, status, util.TruncateWidth(r.Reason, 40))
		}
	}
}
