// AngelaMos | 2026
// service_test.go

package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/stillmind/internal/core"
)

type fakeRepo struct {
	levels      map[string]*Level
	bestFors    map[string]*BestFor
	collections map[string]*Collection
	audios      map[string]*Audio
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		levels:      make(map[string]*Level),
		bestFors:    make(map[string]*BestFor),
		collections: make(map[string]*Collection),
		audios:      make(map[string]*Audio),
	}
}

func (f *fakeRepo) CreateLevel(_ context.Context, level *Level) error {
	for _, existing := range f.levels {
		if existing.Name == level.Name {
			return core.ErrDuplicateKey
		}
	}
	clone := *level
	f.levels[level.ID] = &clone
	return nil
}

func (f *fakeRepo) GetLevel(_ context.Context, id string) (*Level, error) {
	l, ok := f.levels[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *l
	return &clone, nil
}

func (f *fakeRepo) UpdateLevel(_ context.Context, level *Level) error {
	if _, ok := f.levels[level.ID]; !ok {
		return core.ErrNotFound
	}
	clone := *level
	f.levels[level.ID] = &clone
	return nil
}

func (f *fakeRepo) DeleteLevel(_ context.Context, id string) error {
	if _, ok := f.levels[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.levels, id)
	return nil
}

func (f *fakeRepo) CreateBestFor(_ context.Context, bestFor *BestFor) error {
	for _, existing := range f.bestFors {
		if existing.Name == bestFor.Name {
			return core.ErrDuplicateKey
		}
	}
	clone := *bestFor
	f.bestFors[bestFor.ID] = &clone
	return nil
}

func (f *fakeRepo) GetBestFor(_ context.Context, id string) (*BestFor, error) {
	b, ok := f.bestFors[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (f *fakeRepo) UpdateBestFor(_ context.Context, bestFor *BestFor) error {
	if _, ok := f.bestFors[bestFor.ID]; !ok {
		return core.ErrNotFound
	}
	clone := *bestFor
	f.bestFors[bestFor.ID] = &clone
	return nil
}

func (f *fakeRepo) DeleteBestFor(_ context.Context, id string) error {
	if _, ok := f.bestFors[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.bestFors, id)
	return nil
}

func (f *fakeRepo) CreateCollection(
	_ context.Context,
	collection *Collection,
) error {
	for _, existing := range f.collections {
		if existing.Name == collection.Name {
			return core.ErrDuplicateKey
		}
	}
	clone := *collection
	f.collections[collection.ID] = &clone
	return nil
}

func (f *fakeRepo) GetCollection(
	_ context.Context,
	id string,
) (*Collection, error) {
	c, ok := f.collections[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeRepo) UpdateCollection(
	_ context.Context,
	collection *Collection,
) error {
	stored, ok := f.collections[collection.ID]
	if !ok {
		return core.ErrNotFound
	}
	levels := stored.LevelIDs
	clone := *collection
	clone.LevelIDs = levels
	f.collections[collection.ID] = &clone
	return nil
}

func (f *fakeRepo) DeleteCollection(_ context.Context, id string) error {
	if _, ok := f.collections[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.collections, id)
	return nil
}

func (f *fakeRepo) ReplaceCollectionLevels(
	_ context.Context,
	collectionID string,
	levelIDs []string,
) error {
	c, ok := f.collections[collectionID]
	if !ok {
		return core.ErrNotFound
	}
	c.LevelIDs = append([]string(nil), levelIDs...)
	return nil
}

func (f *fakeRepo) CreateAudio(_ context.Context, audio *Audio) error {
	clone := *audio
	f.audios[audio.ID] = &clone
	return nil
}

func (f *fakeRepo) GetAudio(_ context.Context, id string) (*Audio, error) {
	a, ok := f.audios[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (f *fakeRepo) UpdateAudio(_ context.Context, audio *Audio) error {
	if _, ok := f.audios[audio.ID]; !ok {
		return core.ErrNotFound
	}
	clone := *audio
	f.audios[audio.ID] = &clone
	return nil
}

func (f *fakeRepo) DeleteAudio(_ context.Context, id string) error {
	if _, ok := f.audios[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.audios, id)
	return nil
}

func newCatalogService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, logger), repo
}

func seedLevel(t *testing.T, svc *Service, name string) *Level {
	t.Helper()
	level, err := svc.CreateLevel(
		context.Background(),
		CreateLevelRequest{Name: name, Active: true},
	)
	require.NoError(t, err)
	return level
}

func seedBestFor(t *testing.T, svc *Service, name string) *BestFor {
	t.Helper()
	bestFor, err := svc.CreateBestFor(
		context.Background(),
		CreateBestForRequest{Name: name, Active: true},
	)
	require.NoError(t, err)
	return bestFor
}

func seedCollection(t *testing.T, svc *Service, name string) *Collection {
	t.Helper()
	collection, err := svc.CreateCollection(
		context.Background(),
		CreateCollectionRequest{Name: name, Active: true},
	)
	require.NoError(t, err)
	return collection
}

func TestValidateDuration(t *testing.T) {
	valid := []string{"00:05:30", "01:00:00", "00:00:01", "12:59:59"}
	for _, d := range valid {
		assert.NoError(t, validateDuration(d), d)
	}

	invalid := []string{"", "5:00", "00:61:00", "00:05:60", "1:05:30", "00:05:30.5"}
	for _, d := range invalid {
		assert.ErrorIs(t, validateDuration(d), core.ErrInvalidInput, d)
	}
}

func TestCreateCollectionChecksReferences(t *testing.T) {
	svc, _ := newCatalogService()
	ctx := context.Background()

	missing := "6f9619ff-8b86-4d01-b42d-00cf4fc964ff"

	_, err := svc.CreateCollection(ctx, CreateCollectionRequest{
		Name:      "Morning Calm",
		BestForID: &missing,
	})
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.CreateCollection(ctx, CreateCollectionRequest{
		Name:     "Morning Calm",
		LevelIDs: []string{missing},
	})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateCollectionLinksLevels(t *testing.T) {
	svc, repo := newCatalogService()
	ctx := context.Background()

	beginner := seedLevel(t, svc, "Beginner")
	advanced := seedLevel(t, svc, "Advanced")
	sleep := seedBestFor(t, svc, "Sleep")

	collection, err := svc.CreateCollection(ctx, CreateCollectionRequest{
		Name:      "Evening Wind-down",
		BestForID: &sleep.ID,
		LevelIDs:  []string{beginner.ID, advanced.ID},
		Active:    true,
	})
	require.NoError(t, err)

	stored, err := repo.GetCollection(ctx, collection.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{beginner.ID, advanced.ID}, stored.LevelIDs)
	require.NotNil(t, stored.BestForID)
	assert.Equal(t, sleep.ID, *stored.BestForID)
}

func TestUpdateCollectionKeepsLevelsWhenOmitted(t *testing.T) {
	svc, repo := newCatalogService()
	ctx := context.Background()

	beginner := seedLevel(t, svc, "Beginner")

	collection, err := svc.CreateCollection(ctx, CreateCollectionRequest{
		Name:     "Morning Calm",
		LevelIDs: []string{beginner.ID},
	})
	require.NoError(t, err)

	name := "Morning Stillness"
	_, err = svc.UpdateCollection(ctx, collection.ID, UpdateCollectionRequest{
		Name: &name,
	})
	require.NoError(t, err)

	stored, err := repo.GetCollection(ctx, collection.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning Stillness", stored.Name)
	assert.Equal(t, []string{beginner.ID}, stored.LevelIDs,
		"omitting levelIds leaves the existing set")
}

func TestUpdateCollectionReplacesLevels(t *testing.T) {
	svc, repo := newCatalogService()
	ctx := context.Background()

	beginner := seedLevel(t, svc, "Beginner")
	advanced := seedLevel(t, svc, "Advanced")

	collection, err := svc.CreateCollection(ctx, CreateCollectionRequest{
		Name:     "Morning Calm",
		LevelIDs: []string{beginner.ID},
	})
	require.NoError(t, err)

	levels := []string{advanced.ID}
	_, err = svc.UpdateCollection(ctx, collection.ID, UpdateCollectionRequest{
		LevelIDs: &levels,
	})
	require.NoError(t, err)

	stored, err := repo.GetCollection(ctx, collection.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{advanced.ID}, stored.LevelIDs)

	empty := []string{}
	_, err = svc.UpdateCollection(ctx, collection.ID, UpdateCollectionRequest{
		LevelIDs: &empty,
	})
	require.NoError(t, err)

	stored, err = repo.GetCollection(ctx, collection.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.LevelIDs)
}

func TestCreateAudioRequiresCollection(t *testing.T) {
	svc, _ := newCatalogService()
	ctx := context.Background()

	_, err := svc.CreateAudio(ctx, CreateAudioRequest{
		CollectionID: "6f9619ff-8b86-4d01-b42d-00cf4fc964ff",
		Title:        "Body Scan",
		AudioURL:     "https://cdn.example.com/body-scan.mp3",
		Duration:     "00:12:00",
	})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateAudioRejectsMalformedDuration(t *testing.T) {
	svc, _ := newCatalogService()
	ctx := context.Background()

	collection := seedCollection(t, svc, "Morning Calm")

	_, err := svc.CreateAudio(ctx, CreateAudioRequest{
		CollectionID: collection.ID,
		Title:        "Body Scan",
		AudioURL:     "https://cdn.example.com/body-scan.mp3",
		Duration:     "12:00",
	})
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestUpdateAudioPatchesFields(t *testing.T) {
	svc, repo := newCatalogService()
	ctx := context.Background()

	collection := seedCollection(t, svc, "Morning Calm")

	audio, err := svc.CreateAudio(ctx, CreateAudioRequest{
		CollectionID: collection.ID,
		Title:        "Body Scan",
		AudioURL:     "https://cdn.example.com/body-scan.mp3",
		Duration:     "00:12:00",
		Active:       true,
	})
	require.NoError(t, err)

	title := "Deep Body Scan"
	duration := "00:15:00"
	_, err = svc.UpdateAudio(ctx, audio.ID, UpdateAudioRequest{
		Title:    &title,
		Duration: &duration,
	})
	require.NoError(t, err)

	stored, err := repo.GetAudio(ctx, audio.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deep Body Scan", stored.Title)
	assert.Equal(t, "00:15:00", stored.Duration)
	assert.Equal(t, "https://cdn.example.com/body-scan.mp3", stored.AudioURL)

	bad := "15:00"
	_, err = svc.UpdateAudio(ctx, audio.ID, UpdateAudioRequest{Duration: &bad})
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestDuplicateNamesRejected(t *testing.T) {
	svc, _ := newCatalogService()
	ctx := context.Background()

	seedLevel(t, svc, "Beginner")
	_, err := svc.CreateLevel(ctx, CreateLevelRequest{Name: "Beginner"})
	require.ErrorIs(t, err, core.ErrDuplicateKey)

	seedBestFor(t, svc, "Sleep")
	_, err = svc.CreateBestFor(ctx, CreateBestForRequest{Name: "Sleep"})
	require.ErrorIs(t, err, core.ErrDuplicateKey)
}
