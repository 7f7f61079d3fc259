package skills

import (
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"voxie/internal/state"
)

// The feed file comes in two shapes: the legacy grouped form
// {"tech":[{...}],...} and the flat form {"items":[{...}]}. gjson lets us
// pick through both without a schema.

var (
	newsStop = map[string]bool{
		"abbiamo": true, "che": true, "notizie": true, "news": true, "oggi": true,
		"ultime": true, "ultima": true, "un": true, "una": true, "del": true,
		"della": true, "dei": true, "degli": true, "di": true,
	}
	newsAlias = map[string]string{
		"tecnologia":       "tech",
		"tech":             "tech",
		"economia":         "finanza",
		"finanza":          "finanza",
		"sport":            "sport",
		"generale":         "general",
		"general":          "general",
		"cronaca":          "general",
		"intrattenimento":  "intrattenimento",
		"spettacolo":       "intrattenimento",
	}

	rePunct = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	reSpace = regexp.MustCompile(`\s+`)
)

func normText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = rePunct.ReplaceAllString(s, "")
	s = reSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func normalizeCategory(category string) string {
	cat := normText(category)
	if newsStop[cat] {
		cat = ""
	}
	if cat != "" {
		if a, ok := newsAlias[cat]; ok {
			cat = a
		}
	}
	return cat
}

type News struct {
	dataDir string
	store   *state.Store
	pick    func(n int) int
}

func NewNews(dataDir string, store *state.Store) *News {
	return &News{dataDir: dataDir, store: store, pick: rand.Intn}
}

// WithPicker fixes the random pick. Used by tests.
func (n *News) WithPicker(pick func(int) int) *News {
	n.pick = pick
	return n
}

func (n *News) feedPath() string {
	return filepath.Join(n.dataDir, "cache", "news", "feed_data.json")
}

// buckets maps normalized category -> relative mp3 paths, accepting both
// feed formats.
func (n *News) buckets(doc gjson.Result) map[string][]string {
	b := make(map[string][]string)

	if items := doc.Get("items"); items.IsArray() {
		items.ForEach(func(_, it gjson.Result) bool {
			if it.Get("type").String() != "news" {
				return true
			}
			cat := normalizeCategory(it.Get("category").String())
			if cat == "" {
				cat = "general"
			}
			if rel := it.Get("local_path").String(); rel != "" {
				b[cat] = append(b[cat], rel)
			}
			return true
		})
		return b
	}

	doc.ForEach(func(key, arr gjson.Result) bool {
		if !arr.IsArray() {
			return true
		}
		cat := normalizeCategory(key.String())
		if cat == "" {
			cat = normText(key.String())
		}
		if cat == "" {
			return true
		}
		arr.ForEach(func(_, it gjson.Result) bool {
			if rel := it.Get("local_path").String(); rel != "" {
				b[cat] = append(b[cat], rel)
			}
			return true
		})
		return true
	})
	return b
}

func pickCategory(b map[string][]string, want string) string {
	if want != "" && len(b[want]) > 0 {
		return want
	}
	if len(b["general"]) > 0 {
		return "general"
	}
	for k, v := range b {
		if len(v) > 0 {
			return k
		}
	}
	return ""
}

type newsLast struct {
	Path string `json:"path"`
}

// Run picks one playable bulletin for the requested category, avoiding an
// immediate repeat of the previous pick.
func (n *News) Run(category string) Result {
	raw, err := os.ReadFile(n.feedPath())
	if err != nil {
		return Fail("FEED_MISSING")
	}
	if !gjson.ValidBytes(raw) {
		return Fail("FEED_BAD_JSON")
	}
	doc := gjson.ParseBytes(raw)

	b := n.buckets(doc)
	if len(b) == 0 {
		return Fail("NO_NEWS_AVAILABLE")
	}

	cat := pickCategory(b, normalizeCategory(category))
	if cat == "" {
		return Fail("NO_NEWS_AVAILABLE")
	}

	var candidates []string
	for _, rel := range b[cat] {
		abs := filepath.Join(n.dataDir, strings.TrimPrefix(rel, "/"))
		if st, err := os.Stat(abs); err == nil && st.Size() > 1000 {
			candidates = append(candidates, abs)
		}
	}
	if len(candidates) == 0 {
		return Result{OK: false, Err: "NO_NEWS_FOR_CATEGORY", Meta: map[string]string{"category": cat}}
	}

	lastDoc := "news_last_" + cat
	var last newsLast
	n.store.Load(lastDoc, &last)

	if len(candidates) > 1 && last.Path != "" {
		fresh := candidates[:0]
		for _, p := range candidates {
			if p != last.Path {
				fresh = append(fresh, p)
			}
		}
		if len(fresh) > 0 {
			candidates = fresh
		}
	}

	pick := candidates[n.pick(len(candidates))]
	n.store.Save(lastDoc, newsLast{Path: pick})

	return Result{OK: true, LocalPath: pick, Meta: map[string]string{"category": cat}}
}
