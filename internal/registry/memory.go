package registry

import (
	"context"
	"sync"

	"github.com/rpsarena/engine/internal/rps"
)

// record is the persisted shape named in §6: id, name, source_text,
// kind_tag, blob_key, is_disabled, is_builtin.
type record struct {
	id         int
	name       string
	sourceText string
	kindTag    int
	blobKey    string
	isDisabled bool
	isBuiltin  bool
}

// MemoryRegistry is an in-process, mutex-guarded Registry. It exists so
// the ambient shell and integration tests have a concrete collaborator to
// run against without standing up a database (the teacher ships exactly
// one concrete driver, Docker, behind its own abstract interface — this
// plays the same role for the registry port).
type MemoryRegistry struct {
	mu      sync.Mutex
	nextID  int
	records map[int]*record
}

// NewMemoryRegistry returns an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{records: make(map[int]*record)}
}

func (r *MemoryRegistry) ListActive(ctx context.Context) ([]*rps.Bot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bots := make([]*rps.Bot, 0, len(r.records))
	for _, rec := range r.records {
		if rec.isDisabled {
			continue
		}
		bots = append(bots, recordToBot(rec))
	}
	return bots, nil
}

func (r *MemoryRegistry) Insert(ctx context.Context, bot *rps.Bot) (InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if !rec.isDisabled && rec.name == bot.DisplayName {
			return NameTaken, nil
		}
	}

	r.nextID++
	id := r.nextID
	r.records[id] = &record{
		id:         id,
		name:       bot.DisplayName,
		sourceText: bot.SourceText,
		kindTag:    bot.Kind.KindTag(),
		blobKey:    bot.BlobKey,
	}
	bot.RegistryID = &id
	return Created, nil
}

func (r *MemoryRegistry) Disable(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.records[id]; ok {
		rec.isDisabled = true
	}
	return nil
}

func recordToBot(rec *record) *rps.Bot {
	kind, err := rps.BotKindFromTag(rec.kindTag)
	if err != nil {
		kind = rps.Native
	}
	id := rec.id
	return &rps.Bot{
		RegistryID:  &id,
		Kind:        kind,
		DisplayName: rec.name,
		SourceText:  rec.sourceText,
		BlobKey:     rec.blobKey,
	}
}
