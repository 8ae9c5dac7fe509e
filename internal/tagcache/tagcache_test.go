package tagcache

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPutGetRoundTrip(t *testing.T) {
	store := New()

	store.Put("products", []string{"a", "b"}, []Tag{ListTag("Products")})

	value, ok := store.Get("products")
	if !ok {
		t.Fatal("expected cached entry to be served")
	}
	products, ok := value.([]string)
	if !ok || len(products) != 2 {
		t.Fatalf("expected cached value to round trip, got %v", value)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := New()

	if _, ok := store.Get("nothing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestInvalidateMarksSubscribedEntriesStale(t *testing.T) {
	store := New()

	store.Put("product/1", "one", []Tag{ItemTag("Products", "1")})
	store.Put("product/2", "two", []Tag{ItemTag("Products", "2")})
	store.Put("branches", "all", []Tag{ListTag("Branches")})

	store.Invalidate(ItemTag("Products", "1"))

	if _, ok := store.Get("product/1"); ok {
		t.Error("invalidated entry should not be served")
	}
	if _, ok := store.Get("product/2"); !ok {
		t.Error("entry with a different tag id should stay fresh")
	}
	if _, ok := store.Get("branches"); !ok {
		t.Error("entry of a different family should stay fresh")
	}
}

func TestStaleEntryIsKeptButNotServed(t *testing.T) {
	store := New()

	store.Put("products", "page", []Tag{ListTag("Products")})
	store.Invalidate(ListTag("Products"))

	if _, ok := store.Get("products"); ok {
		t.Error("stale entry should not be served by Get")
	}

	value, present, fresh := store.Lookup("products")
	if !present {
		t.Fatal("stale entry should still be present")
	}
	if fresh {
		t.Error("Lookup should report the entry as stale")
	}
	if value != "page" {
		t.Errorf("stale entry should keep its value, got %v", value)
	}
}

func TestPutClearsStaleness(t *testing.T) {
	store := New()

	store.Put("products", "old", []Tag{ListTag("Products")})
	store.Invalidate(ListTag("Products"))
	store.Put("products", "new", []Tag{ListTag("Products")})

	value, ok := store.Get("products")
	if !ok {
		t.Fatal("refreshed entry should be served again")
	}
	if value != "new" {
		t.Errorf("expected refreshed value, got %v", value)
	}
}

func TestInvalidateDoesNotAffectLaterEntries(t *testing.T) {
	store := New()

	store.Invalidate(ListTag("Products"))
	store.Put("products", "page", []Tag{ListTag("Products")})

	if _, ok := store.Get("products"); !ok {
		t.Error("entry cached after an invalidation should be fresh")
	}
}

func TestInvalidateTypeMarksWholeFamilyStale(t *testing.T) {
	store := New()

	store.Put("product/1", "one", []Tag{ItemTag("Products", "1")})
	store.Put("products", "page", []Tag{ListTag("Products")})
	store.Put("branches", "all", []Tag{ListTag("Branches")})

	store.InvalidateType("Products")

	if _, ok := store.Get("product/1"); ok {
		t.Error("item entry of the family should be stale")
	}
	if _, ok := store.Get("products"); ok {
		t.Error("list entry of the family should be stale")
	}
	if _, ok := store.Get("branches"); !ok {
		t.Error("other families should be untouched")
	}
}

func TestLastWriteWins(t *testing.T) {
	store := New()

	store.Put("products", "first", []Tag{ListTag("Products")})
	store.Put("products", "second", []Tag{ListTag("Products")})

	value, ok := store.Get("products")
	if !ok || value != "second" {
		t.Errorf("expected last write to win, got %v", value)
	}
}

func TestUnsubscribeEvictsAtZeroSubscribers(t *testing.T) {
	store := New()

	store.Subscribe("products")
	store.Subscribe("products")
	store.Put("products", "page", []Tag{ListTag("Products")})

	store.Unsubscribe("products")
	if store.Len() != 1 {
		t.Fatal("entry with a remaining subscriber must not be evicted")
	}

	store.Unsubscribe("products")
	if store.Len() != 0 {
		t.Error("entry without subscribers should be evicted")
	}
}

func TestSubscriptionSurvivesPut(t *testing.T) {
	store := New()

	store.Subscribe("products")
	store.Put("products", "page", []Tag{ListTag("Products")})
	store.Put("products", "page2", []Tag{ListTag("Products")})

	store.Unsubscribe("products")
	if store.Len() != 0 {
		t.Error("subscriber count should carry across Put calls")
	}
}

func TestClearDropsEverything(t *testing.T) {
	store := New()

	store.Put("a", 1, []Tag{ListTag("Products")})
	store.Put("b", 2, []Tag{ListTag("Branches")})
	store.Clear()

	if store.Len() != 0 {
		t.Errorf("expected empty store after Clear, got %d entries", store.Len())
	}
}

func TestProperty_InvalidationOnlyAffectsProvidedTags(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MaxDiscardRatio = 50
	// Slices longer than 51 can never satisfy the uniqueness filter below
	// (values are drawn from 0..50), so keep generated slices well under that.
	parameters.MaxSize = 15
	properties := gopter.NewProperties(parameters)

	properties.Property("invalidating one tag never marks entries of other tags stale", prop.ForAll(
		func(entityIDs []int, invalidateIdx int) bool {
			if len(entityIDs) == 0 {
				return true
			}

			store := New()
			for _, id := range entityIDs {
				key := fmt.Sprintf("product/%d", id)
				store.Put(key, id, []Tag{ItemTag("Products", fmt.Sprintf("%d", id))})
			}

			target := entityIDs[invalidateIdx%len(entityIDs)]
			store.Invalidate(ItemTag("Products", fmt.Sprintf("%d", target)))

			for _, id := range entityIDs {
				key := fmt.Sprintf("product/%d", id)
				_, fresh := store.Get(key)

				if id == target && fresh {
					return false
				}
				if id != target && !fresh {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 50)).SuchThat(func(ids []int) bool {
			seen := make(map[int]bool)
			for _, id := range ids {
				if seen[id] {
					return false
				}
				seen[id] = true
			}
			return true
		}),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ListTagInvalidationCatchesEveryListing(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every entry providing the list tag goes stale together", prop.ForAll(
		func(pageCount int) bool {
			store := New()
			for i := 0; i < pageCount; i++ {
				key := fmt.Sprintf("products?page=%d", i)
				store.Put(key, i, []Tag{ListTag("Products")})
			}

			store.Invalidate(ListTag("Products"))

			for i := 0; i < pageCount; i++ {
				key := fmt.Sprintf("products?page=%d", i)
				if _, ok := store.Get(key); ok {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
