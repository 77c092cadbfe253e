package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/benpate/derp"
	"github.com/rs/zerolog/log"
	"github.com/shankyank/presenter/config"
	"github.com/shankyank/presenter/presentation"
	"github.com/spf13/cobra"
)

func newSendCommand(ctx *commandContext) *cobra.Command {

	var name string
	var spoken string
	var yes bool

	cmd := &cobra.Command{
		Use:   "send [filename]",
		Short: "Queue a notification that starts a presentation",
		Long:  "Queues a notification for a presentation file, or with --spoken, for the catalog entry whose name sounds most like the one given. Close matches start immediately; weaker matches ask for confirmation first.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {

			const location = "main.send"

			cfg, err := ctx.ensureConfig()

			if err != nil {
				return err
			}

			var notification presentation.Notification

			switch {

			case spoken != "" && len(args) > 0:
				return derp.InternalError(location, "Give a filename or --spoken, not both")

			case spoken != "":
				matched, ok, err := matchSpoken(cmd.Context(), cfg, spoken, yes, cmd.InOrStdin(), cmd.OutOrStdout())

				if err != nil {
					return err
				}

				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Not starting a presentation")
					return nil
				}

				notification = matched

			case len(args) == 1:
				notification = presentation.Notification{
					Presentation: &presentation.Presentation{
						Name:     name,
						Filename: args[0],
					},
				}

			default:
				return derp.InternalError(location, "A filename or --spoken is required")
			}

			if err := sendNotification(cmd.Context(), cfg, notification); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Queued presentation: %s\n", notification.Presentation.Filename)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Human-readable presentation name")
	cmd.Flags().StringVar(&spoken, "spoken", "", "Match this name against the presentation catalog")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Start weaker matches without asking")
	return cmd
}

// matchSpoken finds the catalog entry that best matches a spoken name.  It
// reports false when the user declines a weaker match.
func matchSpoken(ctx context.Context, cfg *config.Config, spoken string, yes bool, in io.Reader, out io.Writer) (presentation.Notification, bool, error) {

	const location = "main.matchSpoken"

	presentations, err := loadCatalog(ctx, cfg)

	if err != nil {
		return presentation.Notification{}, false, derp.Wrap(err, location, "Unable to load presentations")
	}

	if len(presentations) == 0 {
		return presentation.Notification{}, false, derp.InternalError(location, "No presentations configured. Add [[presentations]] or a catalog to the config")
	}

	notification, err := presentation.Match(spoken, presentations)

	if err != nil {
		return presentation.Notification{}, false, derp.Wrap(err, location, "Unable to match presentation", spoken)
	}

	log.Debug().
		Str("location", location).
		Str("spoken", spoken).
		Str("name", notification.Presentation.Name).
		Float64("confidence", notification.Confidence).
		Msg("Matched presentation")

	switch presentation.Decide(notification.Confidence) {

	case presentation.DecisionStart:
		return notification, true, nil

	case presentation.DecisionConfirm:
		if yes {
			return notification, true, nil
		}

		question := fmt.Sprintf("Did you mean %q?", notification.Presentation.Name)
		return notification, confirm(in, out, question), nil
	}

	return presentation.Notification{}, false, derp.InternalError(location, "No presentation sounds like that name", spoken)
}

// confirm asks a yes/no question.  Anything other than "y" or "yes" is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {

	fmt.Fprintf(out, "%s [y/N] ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')

	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}

	return false
}
