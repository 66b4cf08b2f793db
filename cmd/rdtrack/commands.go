package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/application/service"
	"github.com/garyjia/proposal-tracker/internal/domain/assignment"
	"github.com/garyjia/proposal-tracker/internal/domain/status"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the proposal backend and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.sessions.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			u := p.Session.User
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", u.FullName(), u.PrimaryRole())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account e-mail")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.principal(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.sessions.Logout(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newAssignmentsCmd(a *app) *cobra.Command {
	var (
		search     string
		statusName string
		proposalID int64
		page       int
		pageSize   int
	)
	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "List evaluator assignments grouped by proposal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if page < 1 {
				return fmt.Errorf("--page must be at least 1")
			}
			if pageSize < 1 || pageSize > assignment.MaxPageSize {
				return fmt.Errorf("--page-size must be between 1 and %d", assignment.MaxPageSize)
			}
			q := service.TrackerQuery{
				ProposalID: proposalID,
				Filter:     assignment.Filter{Search: search},
				Page:       page,
				PageSize:   pageSize,
			}
			if statusName != "" {
				s, known := status.ParseAssignment(statusName)
				if !known {
					return fmt.Errorf("unknown status %q", statusName)
				}
				q.Filter.Status = s
			}

			p, err := a.principal(cmd.Context())
			if err != nil {
				return err
			}
			defer a.persist(cmd.Context(), p)

			result, err := a.tracker.List(cmd.Context(), p, q)
			if err != nil {
				return err
			}
			renderAssignments(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match proposal titles and evaluator names")
	cmd.Flags().StringVar(&statusName, "status", "", "only groups with this status, e.g. overdue")
	cmd.Flags().Int64Var(&proposalID, "proposal", 0, "only this proposal")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", assignment.DefaultPageSize, "groups per page")
	return cmd
}

func newBudgetCmd(a *app) *cobra.Command {
	var (
		xlsxPath string
		scope    string
	)
	cmd := &cobra.Command{
		Use:   "budget <proposal-id>",
		Short: "Show a proposal's budget by funding source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid proposal id %q", args[0])
			}

			p, err := a.principal(cmd.Context())
			if err != nil {
				return err
			}
			defer a.persist(cmd.Context(), p)

			sc := port.ProposalScope(scope)
			if xlsxPath != "" {
				data, _, err := a.proposals.ExportBudget(cmd.Context(), p, sc, id)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
					return fmt.Errorf("failed to write workbook: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", xlsxPath)
				return nil
			}

			summary, err := a.proposals.Budget(cmd.Context(), p, sc, id)
			if err != nil {
				return err
			}
			renderBudget(cmd.OutOrStdout(), id, summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the budget to this Excel file instead of printing it")
	cmd.Flags().StringVar(&scope, "scope", "", "proposal listing to search (default depends on role)")
	return cmd
}
