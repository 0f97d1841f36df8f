package directory

import "sort"

// RatedArtisan pairs a profile with its rating summary for display.
type RatedArtisan struct {
	Artisan
	Average float64
	Rated   bool
}

// All returns every profile with its rating summary, in insertion order.
func (s *Store) All() []RatedArtisan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(func(Artisan) bool { return true })
}

// Search returns the artisans listing the trade, case-insensitively against
// each comma-separated entry, in insertion order.
func (s *Store) Search(trade string) []RatedArtisan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(func(a Artisan) bool { return a.HasTrade(trade) })
}

// Top returns at most n artisans by descending average rating. The sort is
// stable: ties and unrated artisans keep insertion order, unrated last.
func (s *Store) Top(n int) []RatedArtisan {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.listLocked(func(Artisan) bool { return true })
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Rated != all[j].Rated {
			return all[i].Rated
		}
		return all[i].Average > all[j].Average
	})
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// TotalStats aggregates directory counters. Pure read, no side effects.
func (s *Store) TotalStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Artisans: len(s.artisans)}
	for _, a := range s.artisans {
		st.JobsDone += a.JobsDone
	}
	for _, scores := range s.ratings {
		st.RatingsGiven += len(scores)
	}
	return st
}

func (s *Store) listLocked(keep func(Artisan) bool) []RatedArtisan {
	var out []RatedArtisan
	for _, id := range s.order {
		a, ok := s.artisans[id]
		if !ok || !keep(a) {
			continue
		}
		avg, rated := s.averageLocked(id)
		out = append(out, RatedArtisan{Artisan: a, Average: avg, Rated: rated})
	}
	return out
}
