package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/deskmate/internal/favorites"
	"github.com/kjstillabower/deskmate/internal/render"
)

// favoritesCmd manages the saved city list.
var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage favorite cities",
	Long: `Favorite cities are kept one per line in a plain text file
(~/.deskmate/favorite_locations.txt by default) so they survive between
sessions and stay editable by hand.`,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite cities",
	RunE: func(_ *cobra.Command, _ []string) error {
		cities, err := newFavorites().List()
		if err != nil {
			return err
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			if format() == render.FormatJSON {
				return render.WriteJSON(w, cities)
			}
			if len(cities) == 0 {
				fmt.Fprintln(w, "No favorite locations saved yet.")
				return nil
			}
			for i, city := range cities {
				fmt.Fprintf(w, "%d. %s\n", i+1, city)
			}
			return nil
		}, "Wrote favorites")
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add CITY",
	Short: "Add a city to favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		city := strings.Join(args, " ")
		added, err := newFavorites().Add(city)
		if err != nil {
			return err
		}
		if !added {
			fmt.Printf("%s is already in favorites\n", favorites.TitleCase(city))
			return nil
		}
		fmt.Printf("Added %s to favorites\n", favorites.TitleCase(city))
		return nil
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove CITY",
	Short: "Remove a city from favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		city := strings.Join(args, " ")
		removed, err := newFavorites().Remove(city)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("%s is not in favorites\n", favorites.TitleCase(city))
			return nil
		}
		fmt.Printf("Removed %s from favorites\n", favorites.TitleCase(city))
		return nil
	},
}

var favoritesExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export favorites to a readable text file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path := "favorites_export.txt"
		if len(args) > 0 {
			path = args[0]
		}
		count, err := newFavorites().Export(path)
		if err != nil {
			if errors.Is(err, favorites.ErrNoFavorites) {
				fmt.Println("No favorite locations to export.")
				return nil
			}
			return err
		}
		fmt.Printf("Exported %d favorite cities to %s\n", count, path)
		return nil
	},
}

var favoritesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every favorite city",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := newFavorites().Clear(); err != nil {
			return err
		}
		fmt.Println("Favorites cleared.")
		return nil
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesExportCmd)
	favoritesCmd.AddCommand(favoritesClearCmd)
}
