package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/ghbrowse/internal/client/models"
)

// syncWriter serializes writes from the REPL and the main loop.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func renderList(w io.Writer, s models.ViewState, page int) {
	if s.IsLoading {
		fmt.Fprintln(w, "loading users...")
		return
	}
	if len(s.Items) == 0 {
		fmt.Fprintln(w, "no users")
		return
	}
	for i, it := range s.Items {
		fmt.Fprintf(w, "%4d. %-24s %s\n", i+1, it.Login, it.HTMLURL)
	}
	fmt.Fprintf(w, "-- %d users, %d page(s); 'more' for the next page\n", len(s.Items), page)
}

func renderDetail(w io.Writer, s models.DetailState) {
	if s.IsLoading {
		fmt.Fprintln(w, "loading profile...")
		return
	}
	for _, it := range s.Items {
		switch it.Kind {
		case models.DetailItemHeader:
			fmt.Fprintf(w, "%s\n  avatar:   %s\n", it.Login, it.AvatarURL)
			if it.Location != "" {
				fmt.Fprintf(w, "  location: %s\n", it.Location)
			}
		case models.DetailItemStats:
			fmt.Fprintf(w, "  followers: %d  following: %d\n", it.Followers, it.Following)
		case models.DetailItemBlog:
			fmt.Fprintf(w, "  profile:  %s\n", it.URL)
		}
	}
}
