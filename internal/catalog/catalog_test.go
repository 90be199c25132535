package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureJSON = `{
  "tasks": [
    {
      "title": "Aadhaar Card Registration",
      "description": "Enrol for a new Aadhaar card.",
      "task_id": "aadhaar-registration",
      "application_mode": {
        "offline": {"available": true, "steps": ["Visit centre", "Biometrics"]}
      }
    },
    {
      "title": "PAN Card Application",
      "description": "Apply for a PAN.",
      "task_id": "pan-application",
      "application_mode": {
        "online": {"available": true, "steps": ["Fill Form 49A"]}
      }
    },
    {
      "title": "GST Registration",
      "task_id": "gst-registration"
    }
  ]
}`

func writeCatalog(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return NewStore(path, nil)
}

func TestLoadAllOrder(t *testing.T) {
	t.Parallel()
	store := writeCatalog(t, fixtureJSON)

	tasks := store.LoadAll()
	require.Len(t, tasks, 3)
	require.Equal(t, "Aadhaar Card Registration", tasks[0].Title)
	require.Equal(t, "PAN Card Application", tasks[1].Title)
	require.Equal(t, "GST Registration", tasks[2].Title)
}

func TestLoadAllMissingFile(t *testing.T) {
	t.Parallel()
	store := NewStore(filepath.Join(t.TempDir(), "nope.json"), nil)
	require.Empty(t, store.LoadAll())
}

func TestLoadAllMalformed(t *testing.T) {
	t.Parallel()
	store := writeCatalog(t, `{"tasks": [`)
	require.Empty(t, store.LoadAll())
}

func TestLoadAllSkipsUntitledEntries(t *testing.T) {
	t.Parallel()
	store := writeCatalog(t, `{"tasks": [{"title": "A"}, {"description": "no title"}, {"title": "B"}]}`)

	tasks := store.LoadAll()
	require.Len(t, tasks, 2)
	require.Equal(t, []string{"A", "B"}, store.ListTitles())
}

func TestListTitlesMatchesLoadAll(t *testing.T) {
	t.Parallel()
	store := writeCatalog(t, fixtureJSON)

	tasks := store.LoadAll()
	titles := store.ListTitles()
	require.Len(t, titles, len(tasks))
	for i, task := range tasks {
		require.Equal(t, task.Title, titles[i])
	}
}

func TestFindByNameSubstring(t *testing.T) {
	t.Parallel()
	store := writeCatalog(t, fixtureJSON)

	task := store.FindByName("pan card")
	require.NotNil(t, task)
	require.Equal(t, "PAN Card Application", task.Title)

	// substring semantics, not exact: "registration" hits the first
	// title containing it, in catalog order
	task = store.FindByName("registration")
	require.NotNil(t, task)
	require.Equal(t, "Aadhaar Card Registration", task.Title)

	require.Nil(t, store.FindByName("ration card"))
}

func TestFindByNameEmptyQueryMatchesFirst(t *testing.T) {
	t.Parallel()
	store := writeCatalog(t, fixtureJSON)

	// every title contains the empty substring, so the first task wins
	task := store.FindByName("")
	require.NotNil(t, task)
	require.Equal(t, "Aadhaar Card Registration", task.Title)
}

func TestFindByID(t *testing.T) {
	t.Parallel()
	store := writeCatalog(t, fixtureJSON)

	task := store.FindByID("pan-application")
	require.NotNil(t, task)
	require.Equal(t, "PAN Card Application", task.Title)

	require.Nil(t, store.FindByID("unknown"))
}

func TestApplicationModeHelpers(t *testing.T) {
	t.Parallel()
	store := writeCatalog(t, fixtureJSON)

	aadhaar := store.FindByID("aadhaar-registration")
	require.NotNil(t, aadhaar)
	require.False(t, OnlineAvailable(aadhaar))
	require.True(t, OfflineAvailable(aadhaar))
	require.Equal(t, []string{"Visit centre", "Biometrics"}, Steps(aadhaar, "offline"))
	require.Nil(t, Steps(aadhaar, "online"))

	gst := store.FindByID("gst-registration")
	require.NotNil(t, gst)
	require.False(t, OnlineAvailable(gst))
	require.False(t, OfflineAvailable(gst))

	require.False(t, OnlineAvailable(nil))
	require.Nil(t, Steps(nil, "online"))
}

func TestLoadAllRereadsFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tasks": [{"title": "A"}]}`), 0o644))
	store := NewStore(path, nil)

	require.Len(t, store.LoadAll(), 1)

	require.NoError(t, os.WriteFile(path, []byte(`{"tasks": [{"title": "A"}, {"title": "B"}]}`), 0o644))
	require.Len(t, store.LoadAll(), 2)
}
