package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"chargebee-prices/api"
	"chargebee-prices/core/output"
	cperrors "chargebee-prices/internal/errors"
)

var eventFlags runFlags

// eventCmd runs the event handler on a JSON event
var eventCmd = &cobra.Command{
	Use:   "event [file|-]",
	Short: "Run the event handler on an {\"itemFamilyId\": \"...\"} event",
	Long: `Read an invocation event from a file, or from stdin when the argument
is "-" or omitted, and print the family report it produces.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := "-"
		if len(args) == 1 {
			src = args[0]
		}
		ev, err := readEvent(cmd.InOrStdin(), src)
		if err != nil {
			return err
		}
		return execute(cmd, &eventFlags, "Handling event", func(ctx context.Context, h *api.Handler) (*output.Report, error) {
			plans, err := h.HandleEvent(ctx, ev)
			if err != nil {
				return nil, err
			}
			return output.FamilyReport(ev.ItemFamilyID, plans), nil
		})
	},
}

func readEvent(stdin io.Reader, src string) (api.Event, error) {
	var ev api.Event

	r := stdin
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return ev, cperrors.Wrap(cperrors.TypeInput, "open event file", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&ev); err != nil {
		return ev, cperrors.Wrap(cperrors.TypeInput, "decode event", err)
	}
	if ev.ItemFamilyID == "" {
		return ev, cperrors.Input("event has no itemFamilyId")
	}
	return ev, nil
}

func init() {
	eventFlags.register(eventCmd)
}
