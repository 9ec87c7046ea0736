package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/myflix/filter"
	"github.com/s0up4200/myflix/views"
)

var (
	filterExpr  string
	preset      string
	onlyFavs    bool
	showDetails bool
)

// moviesCmd lists the catalogue; its subcommands show single records
var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "List movies",
	Long: `List the movie catalogue. Favorites are marked with a star.

Filter expressions use the expr language, for example:
  myflix movies -f 'Genre == "Drama" and !isFavorite'
  myflix movies -f 'directedBy("Nolan")'
  myflix movies -f 'icontains(Title, "star")'`,
	Args: cobra.NoArgs,
	RunE: runMovies,
}

var movieListCmd = &cobra.Command{
	Use:   "list",
	Short: "List movies",
	Args:  cobra.NoArgs,
	RunE:  runMovies,
}

var movieShowCmd = &cobra.Command{
	Use:   "show <title>",
	Short: "Show a movie with its genre and director",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		detail, err := service.MovieDetail(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMovieDetail(detail))
		return nil
	},
}

var genreCmd = &cobra.Command{
	Use:   "genre <name>",
	Short: "Describe a genre",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		genre, err := service.Genre(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGenre(genre))
		return nil
	},
}

var directorCmd = &cobra.Command{
	Use:   "director <name>",
	Short: "Describe a director",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		director, err := service.Director(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDirector(director))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{moviesCmd, movieListCmd} {
		c.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
		c.Flags().StringVarP(&preset, "preset", "p", "", "use a named filter from the config")
		c.Flags().BoolVar(&onlyFavs, "favorites", false, "only list favorites")
		c.Flags().BoolVar(&showDetails, "details", false, "show ids and descriptions")
	}

	moviesCmd.AddCommand(movieListCmd)
	moviesCmd.AddCommand(movieShowCmd)
	moviesCmd.AddCommand(genreCmd)
	moviesCmd.AddCommand(directorCmd)
}

func runMovies(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	opts := views.ListOptions{Mode: views.ModeAll}
	if onlyFavs {
		opts.Mode = views.ModeProfile
	}

	expression, err := getFilterExpression()
	if err != nil {
		return err
	}
	if expression != "" {
		f, err := filter.CompileFilter(expression)
		if err != nil {
			return err
		}
		logger.Debug().Str("filter", expression).Msg("Filtering movies")
		opts.Filter = f
	}

	return printMovies(cmd, opts)
}

func printMovies(cmd *cobra.Command, opts views.ListOptions) error {
	items, err := service.ListMovies(cmd.Context(), opts)
	if err != nil {
		return err
	}

	details := cfg.Display.ShowDetails || showDetails
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMovieList(items, views.FormatOptions{ShowDetails: details}))
	return nil
}

// getFilterExpression picks the command line filter over a named preset
func getFilterExpression() (string, error) {
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if expression, ok := cfg.Filters[strings.ToLower(preset)]; ok {
			return expression, nil
		}
		return "", fmt.Errorf("filter preset '%s' not found in config", preset)
	}

	return "", nil
}

// resolveMovie finds a catalogue entry by id or, failing that, by title
func resolveMovie(ctx context.Context, ref string) (*views.MovieItem, error) {
	items, err := service.ListMovies(ctx, views.ListOptions{Mode: views.ModeAll})
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID == ref {
			return &items[i], nil
		}
	}
	for i := range items {
		if strings.EqualFold(items[i].Title, ref) {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("movie '%s' not found", ref)
}
