package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"parking-slot-control/internal/storage"
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Manage parking slots",
	Long:  `List parking slots and seed the slot inventory from a JSON file.`,
}

var listSlotsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all parking slots",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		page := 1
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tSLOT\tSIZE\tVEHICLE TYPE\tLOCATION\tSTATUS")

		var total int64
		for {
			result, err := provider.ListSlots(ctx, storage.ListParams{Page: page, Limit: 100})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to list slots: %v\n", err)
				os.Exit(1)
			}
			total = result.TotalItems

			for _, slot := range result.Data {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					slot.ID,
					slot.SlotNumber,
					slot.Size,
					slot.VehicleType,
					slot.Location,
					slot.Status,
				)
			}

			if page >= result.TotalPages {
				break
			}
			page++
		}

		w.Flush()
		fmt.Printf("\nTotal slots: %d\n", total)
	},
}

var seedSlotsCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Insert slots from a JSON file",
	Long:  `Insert parking slots from a JSON file containing an array of slot definitions.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		data, err := os.ReadFile(args[0])
		if err != nil {
			slog.Error("Failed to read seed file", "file", args[0], "error", err)
			os.Exit(1)
		}

		var slots []storage.ParkingSlot
		if err := json.Unmarshal(data, &slots); err != nil {
			slog.Error("Failed to parse seed file", "file", args[0], "error", err)
			os.Exit(1)
		}
		if len(slots) == 0 {
			fmt.Println("Seed file contains no slots")
			return
		}

		created, err := provider.CreateSlots(ctx, slots)
		if err != nil {
			slog.Error("Failed to insert slots", "error", err)
			os.Exit(1)
		}

		fmt.Printf("Inserted %d slots\n", len(created))
	},
}

func init() {
	rootCmd.AddCommand(slotsCmd)
	slotsCmd.AddCommand(listSlotsCmd)
	slotsCmd.AddCommand(seedSlotsCmd)
}
