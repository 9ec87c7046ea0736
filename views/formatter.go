package views

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/s0up4200/myflix/myflix"
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
}

// ConsoleFormatter renders views as console text
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatMovieList formats a list of movies for console display
func (f *ConsoleFormatter) FormatMovieList(items []MovieItem, options FormatOptions) string {
	if len(items) == 0 {
		return "No movies found\n"
	}

	var sb strings.Builder

	sb.WriteString("\nMovie")
	if len(items) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(items))
	writeMovieTree(&sb, items, options)
	sb.WriteString("\n")
	return sb.String()
}

func writeMovieTree(sb *strings.Builder, items []MovieItem, options FormatOptions) {
	for i, item := range items {
		isLast := i == len(items)-1
		prefix := "├"
		if isLast {
			prefix = "╰"
		}

		fmt.Fprintf(sb, "%s── %s", prefix, item.Title)
		if item.IsFavorite {
			sb.WriteString(" ★")
		}
		sb.WriteString("\n")

		indent := "│   "
		if isLast {
			indent = "    "
		}

		var parts []string
		if item.Genre.Name != "" {
			parts = append(parts, "Genre: "+item.Genre.Name)
		}
		if item.Director.Name != "" {
			parts = append(parts, "Director: "+item.Director.Name)
		}
		if len(parts) > 0 {
			fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(parts, " | "))
		}

		if options.ShowDetails {
			fmt.Fprintf(sb, "%sID: %s\n", indent, item.ID)
			if item.Description != "" {
				fmt.Fprintf(sb, "%s%s\n", indent, truncate(item.Description, 100))
			}
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}
}

// FormatMovieDetail formats a single movie with its genre and director
func (f *ConsoleFormatter) FormatMovieDetail(detail *MovieDetail) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s", detail.Title)
	if detail.IsFavorite {
		sb.WriteString(" ★")
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", max(utf8.RuneCountInString(detail.Title), 20)))
	sb.WriteString("\n")

	if detail.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", detail.Description)
	}
	sb.WriteString(f.FormatGenre(&detail.GenreInfo))
	sb.WriteString(f.FormatDirector(&detail.DirectorInfo))
	if detail.ImagePath != "" {
		fmt.Fprintf(&sb, "Image: %s\n", detail.ImagePath)
	}

	return sb.String()
}

// FormatGenre formats a genre record
func (f *ConsoleFormatter) FormatGenre(genre *myflix.Genre) string {
	if genre.Name == "" {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Genre: %s\n", genre.Name)
	if genre.Description != "" {
		fmt.Fprintf(&sb, "╰── %s\n", genre.Description)
	}
	return sb.String()
}

// FormatDirector formats a director record
func (f *ConsoleFormatter) FormatDirector(director *myflix.Director) string {
	if director.Name == "" {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Director: %s\n", director.Name)

	var lines []string
	if director.Birth != "" {
		life := "Born: " + director.Birth
		if director.Death != "" {
			life += " | Died: " + director.Death
		}
		lines = append(lines, life)
	}
	if director.Bio != "" {
		lines = append(lines, director.Bio)
	}
	for i, line := range lines {
		prefix := "├"
		if i == len(lines)-1 {
			prefix = "╰"
		}
		fmt.Fprintf(&sb, "%s── %s\n", prefix, line)
	}
	return sb.String()
}

// FormatProfile formats the profile view
func (f *ConsoleFormatter) FormatProfile(profile *Profile) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\nProfile: %s\n", profile.Form.Username)
	if profile.Form.Email != "" {
		fmt.Fprintf(&sb, "├── Email: %s\n", profile.Form.Email)
	}
	birthday := profile.Form.Birthday
	if birthday == "" {
		birthday = "not set"
	}
	fmt.Fprintf(&sb, "╰── Birthday: %s\n", birthday)

	if len(profile.Favorites) == 0 {
		sb.WriteString("\nFavorite movies: none\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "\nFavorite movies (%d):\n\n", len(profile.Favorites))
	writeMovieTree(&sb, profile.Favorites, FormatOptions{})
	sb.WriteString("\n")
	return sb.String()
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
