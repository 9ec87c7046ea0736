package views

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/myflix/myflix"
)

// Mode selects which movies a listing shows
type Mode int

const (
	// ModeAll lists the whole catalogue
	ModeAll Mode = iota
	// ModeProfile lists only the session user's favorites
	ModeProfile
)

// MovieItem is a movie as shown in a listing
type MovieItem struct {
	myflix.Movie
	IsFavorite bool
}

// MovieFilter selects listed movies
type MovieFilter interface {
	Evaluate(item MovieItem) bool
}

// ListOptions controls ListMovies
type ListOptions struct {
	Mode   Mode
	Filter MovieFilter
}

// MovieDetail is a movie with its full genre and director records
type MovieDetail struct {
	MovieItem
	GenreInfo    myflix.Genre
	DirectorInfo myflix.Director
}

// ListMovies fetches the catalogue and projects it for the requested mode.
// In ModeProfile each favorite appears once, in favorites order.
func (s *Service) ListMovies(ctx context.Context, opts ListOptions) ([]MovieItem, error) {
	movies, err := s.api.GetMovies(ctx)
	if err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return nil, err
	}

	user := s.session.CurrentUser()

	var items []MovieItem
	switch opts.Mode {
	case ModeProfile:
		items = favoriteItems(movies, user.UniqueFavorites())
		if missing := len(user.UniqueFavorites()) - len(items); missing > 0 {
			s.logger.Debug().Int("missing", missing).Msg("Some favorites are no longer in the catalogue")
		}
	default:
		favorites := make(map[string]bool, len(user.FavoriteMovies))
		for _, id := range user.FavoriteMovies {
			favorites[id] = true
		}
		items = make([]MovieItem, 0, len(movies))
		for _, movie := range movies {
			items = append(items, MovieItem{Movie: movie, IsFavorite: favorites[movie.ID]})
		}
	}

	if opts.Filter != nil {
		filtered := items[:0]
		for _, item := range items {
			if opts.Filter.Evaluate(item) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	s.logger.Debug().Int("count", len(items)).Msg("Listed movies")
	return items, nil
}

// favoriteItems resolves ids against movies; ids must already be unique
func favoriteItems(movies []myflix.Movie, ids []string) []MovieItem {
	byID := make(map[string]myflix.Movie, len(movies))
	for _, movie := range movies {
		byID[movie.ID] = movie
	}

	items := make([]MovieItem, 0, len(ids))
	for _, id := range ids {
		if movie, ok := byID[id]; ok {
			items = append(items, MovieItem{Movie: movie, IsFavorite: true})
		}
	}
	return items
}

// MovieDetail fetches a movie by title, then its genre and director records
// concurrently. The records embedded in the movie are kept when a lookup fails.
func (s *Service) MovieDetail(ctx context.Context, title string) (*MovieDetail, error) {
	movie, err := s.api.GetMovie(ctx, title)
	if err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return nil, err
	}

	detail := &MovieDetail{
		MovieItem:    MovieItem{Movie: *movie, IsFavorite: s.session.IsFavorite(movie.ID)},
		GenreInfo:    movie.Genre,
		DirectorInfo: movie.Director,
	}

	g, gctx := errgroup.WithContext(ctx)
	if movie.Genre.Name != "" {
		g.Go(func() error {
			genre, err := s.api.GetGenre(gctx, movie.Genre.Name)
			if err != nil {
				s.logger.Warn().Err(err).Str("genre", movie.Genre.Name).Msg("Using embedded genre record")
				return nil
			}
			detail.GenreInfo = *genre
			return nil
		})
	}
	if movie.Director.Name != "" {
		g.Go(func() error {
			director, err := s.api.GetDirector(gctx, movie.Director.Name)
			if err != nil {
				s.logger.Warn().Err(err).Str("director", movie.Director.Name).Msg("Using embedded director record")
				return nil
			}
			detail.DirectorInfo = *director
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return detail, nil
}

// Genre fetches a genre by name
func (s *Service) Genre(ctx context.Context, name string) (*myflix.Genre, error) {
	genre, err := s.api.GetGenre(ctx, name)
	if err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return nil, err
	}
	return genre, nil
}

// Director fetches a director by name
func (s *Service) Director(ctx context.Context, name string) (*myflix.Director, error) {
	director, err := s.api.GetDirector(ctx, name)
	if err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return nil, err
	}
	return director, nil
}

// IsFavorite reports whether movieID is in the session favorites
func (s *Service) IsFavorite(movieID string) bool {
	return s.session.IsFavorite(movieID)
}

// AddFavorite adds movieID remotely and, once the server confirms, locally
func (s *Service) AddFavorite(ctx context.Context, movieID string) error {
	username, err := s.session.Username()
	if err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return err
	}

	if err := s.api.AddFavorite(ctx, username, movieID); err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return err
	}
	if err := s.session.AddFavorite(movieID); err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return fmt.Errorf("favorite added remotely but not saved locally: %w", err)
	}

	s.logger.Info().Str("movie_id", movieID).Msg("Movie added to favorites")
	s.notifier.Notify(MsgFavoriteAdded)
	return nil
}

// RemoveFavorite removes movieID remotely and, once the server confirms, locally
func (s *Service) RemoveFavorite(ctx context.Context, movieID string) error {
	username, err := s.session.Username()
	if err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return err
	}

	if err := s.api.RemoveFavorite(ctx, username, movieID); err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return err
	}
	if err := s.session.RemoveFavorite(movieID); err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return fmt.Errorf("favorite removed remotely but not saved locally: %w", err)
	}

	s.logger.Info().Str("movie_id", movieID).Msg("Movie removed from favorites")
	s.notifier.Notify(MsgFavoriteRemoved)
	return nil
}

// ToggleFavorite flips the favorite state of item and then resyncs
// item.IsFavorite from the session, whether or not the call succeeded.
func (s *Service) ToggleFavorite(ctx context.Context, item *MovieItem) error {
	var err error
	if s.session.IsFavorite(item.ID) {
		err = s.RemoveFavorite(ctx, item.ID)
	} else {
		err = s.AddFavorite(ctx, item.ID)
	}

	item.IsFavorite = s.session.IsFavorite(item.ID)
	return err
}
