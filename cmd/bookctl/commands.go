package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/client"
)

const defaultServer = "http://localhost:8080"

type globalFlags struct {
	server  string
	timeout time.Duration
}

func (g *globalFlags) client() *client.Client {
	return client.New(g.server, g.timeout)
}

// newRootCommand builds the bookctl command tree. in and out replace the
// terminal so the prompt can be driven from tests.
func newRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "bookctl",
		Short:         "Book tables against a booking server",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetIn(in)
	root.SetOut(out)

	server := os.Getenv("BOOKCTL_SERVER")
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVar(&flags.server, "server", server, "booking server base URL (env BOOKCTL_SERVER)")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", 10*time.Second, "request timeout")

	root.AddCommand(
		roomsCommand(flags),
		freeCommand(flags),
		roomCommand(flags),
		bookCommand(flags),
	)
	return root
}

func roomsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List rooms and their tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rooms, err := flags.client().Rooms(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rooms) == 0 {
				fmt.Fprintln(out, "No rooms yet.")
				return nil
			}
			for _, r := range rooms {
				names := make([]string, 0, len(r.Tables))
				for _, t := range r.Tables {
					names = append(names, t.FullName)
				}
				fmt.Fprintf(out, "%s: %s\n", r.Name, strings.Join(names, ", "))
			}
			return nil
		},
	}
}

func freeCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "free",
		Short: "Show the first free table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.client().FreeTable(cmd.Context())
			if errors.Is(err, booking.ErrNoFreeTable) {
				fmt.Fprintln(cmd.OutOrStdout(), "No available tables in any room.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s in %s\n", s.Table, s.Room)
			return nil
		},
	}
}

func roomCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Create a room from the allow-list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := flags.client().AddRoom(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	})
	return cmd
}

func bookCommand(flags *globalFlags) *cobra.Command {
	var (
		room  string
		table string
		yes   bool
	)

	c := &cobra.Command{
		Use:   "book",
		Short: "Add a table to a room, offering the next free table if it is taken",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			room, table = strings.TrimSpace(room), strings.TrimSpace(table)
			if room == "" || table == "" {
				return errors.New("--room and --table are required")
			}

			answers := bufio.NewReader(cmd.InOrStdin())
			prompt := func(question string) (bool, error) {
				if yes {
					fmt.Fprintln(cmd.OutOrStdout(), question, "yes")
					return true, nil
				}
				return askYesNo(answers, cmd.OutOrStdout(), question)
			}

			res, err := flags.client().Book(cmd.Context(), room, table, prompt)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), res)
		},
	}

	c.Flags().StringVar(&room, "room", "", "room name, e.g. \"Room 1\"")
	c.Flags().StringVar(&table, "table", "", "table name, e.g. 05 or B12")
	c.Flags().BoolVarP(&yes, "yes", "y", false, "accept the offered table without asking")
	return c
}

// report prints the result message. Outcomes other than a booked or
// cancelled table exit non-zero.
func report(out io.Writer, res booking.Result) error {
	switch res.Outcome {
	case booking.OutcomeAdded, booking.OutcomeAddedFallback, booking.OutcomeCancelled:
		fmt.Fprintln(out, res.Message)
		return nil
	case booking.OutcomeConfirmationRequired:
		return errors.New("the offered table kept changing, please try again")
	}
	return errors.New(res.Message)
}

func askYesNo(in *bufio.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
