package task

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/teemow/taskfewer/internal/logging"
)

// DefaultStoreFile is the store path used when none is configured.
const DefaultStoreFile = "tasks.json"

// FileStore persists the task collection as a single indented JSON array.
// The file is rewritten wholesale on every save; there is no locking,
// versioning or partial-write protection at this layer.
type FileStore struct {
	path   string
	logger logging.Logger
}

// NewFileStore creates a FileStore backed by the file at path.
// If logger is nil, the process-wide default logger is used.
func NewFileStore(path string, logger logging.Logger) *FileStore {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

// Path returns the file backing this store.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the persisted collection. A missing file is the first-run case
// and yields an empty collection. Unreadable or malformed contents are
// logged and also yield an empty collection rather than an error; any prior
// data in a corrupted file is effectively discarded on the next save.
func (s *FileStore) Load() []Task {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Task{}
		}
		s.logger.Error("failed to read task store, starting with empty collection",
			logging.Operation("load"),
			slog.String("path", s.path),
			logging.Err(err),
		)
		return []Task{}
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		s.logger.Error("task store is malformed, starting with empty collection",
			logging.Operation("load"),
			slog.String("path", s.path),
			logging.Err(err),
		)
		return []Task{}
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks
}

// Save overwrites the persisted collection with tasks. The file is written
// with human-readable indentation so it stays hand-editable. Failures are
// logged and returned wrapped in ErrPersist.
func (s *FileStore) Save(tasks []Task) error {
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		// Task contains only plain JSON-encodable fields, so this should
		// not happen in practice.
		s.logger.Error("failed to encode task collection",
			logging.Operation("save"),
			slog.String("path", s.path),
			logging.Err(err),
		)
		return fmt.Errorf("%w: encode: %v", ErrPersist, err)
	}

	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		s.logger.Error("failed to write task store",
			logging.Operation("save"),
			slog.String("path", s.path),
			logging.Err(err),
		)
		return fmt.Errorf("%w: write %s: %v", ErrPersist, s.path, err)
	}
	return nil
}
