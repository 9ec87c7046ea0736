package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/myflix/views"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"favs"},
	Short:   "List and change your favorite movies",
	Args:    cobra.NoArgs,
	RunE:    runFavoritesList,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your favorite movies",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <movie id or title>",
	Short: "Add a movie to your favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeFavorite(cmd, args, func(item *views.MovieItem) error {
			return service.AddFavorite(cmd.Context(), item.ID)
		})
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "remove <movie id or title>",
	Aliases: []string{"rm"},
	Short:   "Remove a movie from your favorites",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeFavorite(cmd, args, func(item *views.MovieItem) error {
			return service.RemoveFavorite(cmd.Context(), item.ID)
		})
	},
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <movie id or title>",
	Short: "Flip whether a movie is a favorite",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeFavorite(cmd, args, func(item *views.MovieItem) error {
			return service.ToggleFavorite(cmd.Context(), item)
		})
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesToggleCmd)
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	return printMovies(cmd, views.ListOptions{Mode: views.ModeProfile})
}

func changeFavorite(cmd *cobra.Command, args []string, change func(item *views.MovieItem) error) error {
	if err := requireSession(); err != nil {
		return err
	}

	item, err := resolveMovie(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return change(item)
}
