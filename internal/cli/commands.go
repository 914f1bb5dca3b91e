package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-pli/eeprom"
	"github.com/moffa90/go-pli/pli"
	"github.com/moffa90/go-pli/protocol"
)

func (a *app) newLoopbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loopback",
		Short: "Run the adaptor loopback self-test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c *pli.Client) error {
				ok, err := c.LoopbackTestContext(ctx)
				if err != nil {
					return fmt.Errorf("loopback test: %w", err)
				}
				if !ok {
					return fmt.Errorf("loopback test failed")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "loopback ok")
				return nil
			})
		},
	}
}

func (a *app) newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <location>",
		Short: "Read a volatile (RAM) location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseByte(args[0])
			if err != nil {
				return err
			}
			return a.withClient(cmd, func(ctx context.Context, c *pli.Client) error {
				v, err := c.ReadVolatileContext(ctx, index)
				if err != nil {
					return fmt.Errorf("failed to read 0x%02X: %w", index, err)
				}
				fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(newReading(index, v)))
				return nil
			})
		},
	}
}

// Battery is the output of the battery command.
type Battery struct {
	Voltage     int `json:"voltage" yaml:"voltage"`
	Temperature int `json:"temperature" yaml:"temperature"`
}

func (a *app) newBatteryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battery",
		Short: "Show battery voltage and temperature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c *pli.Client) error {
				if err := a.requireLoopback(ctx, c); err != nil {
					return err
				}
				volts, err := c.ReadVolatileContext(ctx, protocol.BatteryVoltage)
				if err != nil {
					return fmt.Errorf("failed to read battery voltage: %w", err)
				}
				temp, err := c.ReadVolatileContext(ctx, protocol.BatteryTemp)
				if err != nil {
					return fmt.Errorf("failed to read battery temperature: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(Battery{Voltage: int(volts), Temperature: int(temp)}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&a.skipLoopback, "skip-loopback", false, "do not run the loopback self-test first")
	return cmd
}

func (a *app) newScanCmd() *cobra.Command {
	var from, to string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Read a range of volatile locations, timing each read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseByte(from)
			if err != nil {
				return err
			}
			end, err := parseByte(to)
			if err != nil {
				return err
			}
			if end < start {
				return fmt.Errorf("--to 0x%02X is below --from 0x%02X", end, start)
			}

			return a.withClient(cmd, func(ctx context.Context, c *pli.Client) error {
				if err := a.requireLoopback(ctx, c); err != nil {
					return err
				}

				indices := eeprom.Range(start, end)
				readings := make([]Reading, 0, len(indices))
				for i, idx := range indices {
					if i > 0 && interval > 0 {
						select {
						case <-time.After(interval):
						case <-ctx.Done():
							return ctx.Err()
						}
					}
					t1 := time.Now()
					v, err := c.ReadVolatileContext(ctx, idx)
					if err != nil {
						return fmt.Errorf("failed to read 0x%02X: %w", idx, err)
					}
					r := newReading(idx, v)
					r.Took = time.Since(t1).Round(time.Microsecond).String()
					readings = append(readings, r)
				}
				fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(readings))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "0x00", "first location")
	cmd.Flags().StringVar(&to, "to", "0xFF", "last location")
	cmd.Flags().DurationVar(&interval, "interval", 100*time.Millisecond, "pause between reads")
	cmd.Flags().BoolVar(&a.skipLoopback, "skip-loopback", false, "do not run the loopback self-test first")
	return cmd
}

func (a *app) newEEPROMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eeprom",
		Short: "Read, write, dump and restore EEPROM locations",
	}
	cmd.AddCommand(
		a.newEEPROMReadCmd(),
		a.newEEPROMWriteCmd(),
		a.newEEPROMDumpCmd(),
		a.newEEPROMRestoreCmd(),
	)
	return cmd
}

func (a *app) newEEPROMReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <location>",
		Short: "Read an EEPROM location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseByte(args[0])
			if err != nil {
				return err
			}
			return a.withClient(cmd, func(ctx context.Context, c *pli.Client) error {
				v, err := c.ReadEEPROMContext(ctx, index)
				if err != nil {
					return fmt.Errorf("failed to read eeprom 0x%02X: %w", index, err)
				}
				fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(newReading(index, v)))
				return nil
			})
		},
	}
}

func (a *app) newEEPROMWriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write <location> <value>",
		Short: "Write an EEPROM location",
		Long: `Write one byte to non-volatile storage. A write whose response is lost
is retried and may be applied twice.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseByte(args[0])
			if err != nil {
				return err
			}
			value, err := parseByte(args[1])
			if err != nil {
				return err
			}
			return a.withClient(cmd, func(ctx context.Context, c *pli.Client) error {
				ack, err := c.WriteEEPROMContext(ctx, index, value)
				if err != nil {
					return fmt.Errorf("failed to write eeprom 0x%02X: %w", index, err)
				}
				fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(newReading(index, ack)))
				return nil
			})
		},
	}
}

func (a *app) newEEPROMDumpCmd() *cobra.Command {
	var from, to, file string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Save EEPROM locations to an image file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseByte(from)
			if err != nil {
				return err
			}
			end, err := parseByte(to)
			if err != nil {
				return err
			}
			return a.withClient(cmd, func(ctx context.Context, c *pli.Client) error {
				img, err := eeprom.Dump(ctx, c, eeprom.Range(start, end))
				if err != nil {
					return err
				}
				if file == "" || file == "-" {
					_, err = img.WriteTo(cmd.OutOrStdout())
					return err
				}
				f, err := os.Create(file)
				if err != nil {
					return fmt.Errorf("create %s: %w", file, err)
				}
				if _, err := img.WriteTo(f); err != nil {
					_ = f.Close()
					return fmt.Errorf("write %s: %w", file, err)
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d locations to %s\n", len(img.Entries), file)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "0x00", "first location")
	cmd.Flags().StringVar(&to, "to", "0xFF", "last location")
	cmd.Flags().StringVarP(&file, "file", "f", "", "image file (default stdout)")
	return cmd
}

func (a *app) newEEPROMRestoreCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "restore <image>",
		Short: "Write an image file back to EEPROM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := eeprom.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			return a.withClient(cmd, func(ctx context.Context, c *pli.Client) error {
				n, err := eeprom.Restore(ctx, c, img, verify)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored %d of %d locations\n", n, len(img.Entries))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", true, "read back each written location")
	return cmd
}
