package templates

import (
	"context"
	"testing"
	"time"

	"github.com/hazyhaar/domap/dbopen"
	"github.com/hazyhaar/domap/page"

	_ "modernc.org/sqlite"
)

func tplKey() Key {
	return Key{Domain: "shop.example.com", PageType: page.TypeProductDetail}
}

func tplData() Data {
	return Data{
		Schema:            "Product",
		HasMain:           true,
		HasStructuredData: true,
		MetadataSource:    "structured_data",
		FieldsFound:       []string{"name", "price", "currency"},
		CardStrategy:      "structured_data",
		PageParam:         "page",
		RemovalRatio:      0.6,
		SelectionRatio:    0.4,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	c := NewCache()
	c.Put(tplKey(), tplData())
	got, ok := c.Get(tplKey())
	if !ok {
		t.Fatal("template not found after Put")
	}
	if got.MetadataSource != "structured_data" || got.PageParam != "page" {
		t.Errorf("got %+v", got)
	}
}

func TestRatioTolerance(t *testing.T) {
	stored := tplData()

	drifted := stored
	drifted.RemovalRatio = 0.85 // within 0.3 of 0.6
	if !stored.Matches(drifted) {
		t.Error("drift within tolerance should match")
	}

	far := stored
	far.SelectionRatio = 0.75 // 0.35 past 0.4
	if stored.Matches(far) {
		t.Error("drift past tolerance should mismatch")
	}

	categorical := stored
	categorical.MetadataSource = "meta_tags"
	if stored.Matches(categorical) {
		t.Error("categorical fields must match exactly")
	}

	reordered := stored
	reordered.FieldsFound = []string{"price", "currency", "name"}
	if !stored.Matches(reordered) {
		t.Error("fields are a set, order must not matter")
	}
}

func TestThreeStrikesEvict(t *testing.T) {
	c := NewCache()
	k := tplKey()
	c.Put(k, tplData())

	mismatch := tplData()
	mismatch.Schema = "NewsArticle"

	for i := 1; i <= 2; i++ {
		if evicted := c.Observe(k, mismatch); evicted {
			t.Fatalf("evicted after %d strikes", i)
		}
		if _, ok := c.Get(k); !ok {
			t.Fatalf("template gone after %d strikes", i)
		}
	}
	if evicted := c.Observe(k, mismatch); !evicted {
		t.Fatal("third consecutive mismatch must evict")
	}
	if _, ok := c.Get(k); ok {
		t.Error("evicted template still readable")
	}
}

func TestSinglePassResetsStrikes(t *testing.T) {
	c := NewCache()
	k := tplKey()
	c.Put(k, tplData())

	mismatch := tplData()
	mismatch.Schema = "NewsArticle"

	c.Observe(k, mismatch)
	c.Observe(k, mismatch)
	c.Observe(k, tplData()) // pass resets the counter
	c.Observe(k, mismatch)
	if evicted := c.Observe(k, mismatch); evicted {
		t.Error("strikes were not reset by the passing build")
	}
}

func TestTemplateTTL(t *testing.T) {
	now := time.Now()
	c := NewCache(WithClock(func() time.Time { return now }))
	c.Put(tplKey(), tplData())

	now = now.Add(25 * time.Hour)
	if _, ok := c.Get(tplKey()); ok {
		t.Error("template should expire after 24h")
	}
}

func TestStoreRoundTripAndEviction(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	store := NewStore(db)
	c := NewCache(WithStore(store))
	k := tplKey()

	c.Put(k, tplData())

	// A fresh cache backed by the same store sees the persisted template.
	c2 := NewCache(WithStore(store))
	got, ok := c2.Get(k)
	if !ok {
		t.Fatal("persisted template not loaded on memory miss")
	}
	if got.Schema != "Product" || len(got.FieldsFound) != 3 {
		t.Errorf("got %+v", got)
	}

	c2.Evict(k)
	if _, _, err := store.Get(context.Background(), k); err == nil {
		t.Error("eviction must delete the persisted row")
	}
}
