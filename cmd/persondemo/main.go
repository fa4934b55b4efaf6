package main

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Ski-Dive-Dev/CachingCollections/examples/person"
)

func main() {
	people := seedPeople()

	q := person.NewPersonQuery(people).Active().NotDeleted()

	fmt.Printf("total people: %d\n", q.Count())
	fmt.Printf("active, not deleted: %d\n", q.FilteredCount())

	if oldest, ok := q.Oldest(); ok {
		fmt.Printf("oldest overall (ignores active/not_deleted filters): %s (age %d)\n", oldest.Name, oldest.Age)
	}

	adults := q.Scope().Adult()
	fmt.Printf("active, not deleted, adult: %d\n", adults.FilteredCount())
	adults.Dispose()

	// adults.Dispose() only runs the threshold check on the adult filter's
	// cache; active and not_deleted, inherited from q, are still live here.
	fmt.Printf("active, not deleted (after nested scope disposed): %d\n", q.FilteredCount())

	for _, stat := range q.CacheStats() {
		fmt.Printf("cache %-12s hits=%-4d misses=%-4d complete=%-5v disabled=%v\n",
			stat.Name, stat.Hits, stat.Misses, stat.Complete, stat.Disabled)
	}
}

// seedPeople builds a small fixed roster so the demo's output is the same
// on every run.
func seedPeople() []*person.Person {
	raw := []struct {
		name    string
		age     int
		active  bool
		deleted bool
		level   int
	}{
		{"Asha", 34, true, false, 3},
		{"Brock", 17, true, false, 1},
		{"Carmen", 52, false, false, 5},
		{"Deshawn", 29, true, true, 2},
		{"Elin", 41, true, false, 4},
		{"Farid", 22, false, true, 1},
		{"Greta", 63, true, false, 5},
		{"Hiro", 15, true, false, 1},
	}

	people := make([]*person.Person, 0, len(raw))
	for _, r := range raw {
		people = append(people, &person.Person{
			ID:      uuid.New(),
			Name:    r.name,
			Age:     r.age,
			Active:  r.active,
			Deleted: r.deleted,
			Level:   r.level,
		})
	}

	return people
}
