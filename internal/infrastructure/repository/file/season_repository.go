package file

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-simulator/internal/domain/season"
	"github.com/riskibarqy/league-simulator/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

const (
	TeamsFile        = "teams.json"
	ScheduleFile     = "schedule.json"
	MatchHistoryFile = "match_history.json"
	TeamHistoryFile  = "team_history.json"
)

// SeasonRepository stores the snapshot as four JSON files under one
// directory. Saves write every file to a temp name first and rename only
// after all four are on disk, so Load in this process never sees a mix of
// old and new files.
type SeasonRepository struct {
	dir    string
	mu     sync.RWMutex
	logger *logging.Logger
}

func NewSeasonRepository(dir string, logger *logging.Logger) (*SeasonRepository, error) {
	if dir == "" {
		return nil, crerr.New("data dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, crerr.Wrapf(err, "create data dir %s", dir)
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SeasonRepository{dir: dir, logger: logger}, nil
}

func (r *SeasonRepository) Dir() string {
	return r.dir
}

func (r *SeasonRepository) Load(ctx context.Context) (season.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return season.Snapshot{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		leagues  []leagueRecord
		pending  map[string]sportRecord
		resolved map[string]sportRecord
		refs     map[string]teamHistoryRecord
	)
	for name, target := range map[string]any{
		TeamsFile:        &leagues,
		ScheduleFile:     &pending,
		MatchHistoryFile: &resolved,
		TeamHistoryFile:  &refs,
	} {
		if err := r.readJSON(name, target); err != nil {
			return season.Snapshot{}, err
		}
	}

	snap := season.Snapshot{
		Leagues:      toLeagues(leagues),
		Schedule:     season.Schedule(toSports(pending, false)),
		MatchHistory: season.MatchHistory(toSports(resolved, true)),
		TeamHistory:  toTeamHistory(refs),
	}
	snap.Normalize()
	return snap, nil
}

func (r *SeasonRepository) Save(ctx context.Context, snapshot season.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	files := []struct {
		name  string
		value any
	}{
		{TeamsFile, fromLeagues(snapshot.Leagues)},
		{ScheduleFile, fromSports(snapshot.Schedule)},
		{MatchHistoryFile, fromSports(snapshot.MatchHistory)},
		{TeamHistoryFile, fromTeamHistory(snapshot.TeamHistory)},
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	temps := make(map[string]string, len(files))
	defer func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}()

	for _, f := range files {
		tmp, err := r.writeTemp(f.name, f.value)
		if err != nil {
			return err
		}
		temps[f.name] = tmp
	}

	for _, f := range files {
		tmp := temps[f.name]
		if err := os.Rename(tmp, filepath.Join(r.dir, f.name)); err != nil {
			r.logger.ErrorContext(ctx, "rename store file failed", "file", f.name, "error", err)
			return crerr.Wrapf(err, "replace %s", f.name)
		}
		delete(temps, f.name)
	}

	return syncDir(r.dir)
}

func (r *SeasonRepository) readJSON(name string, target any) error {
	raw, err := os.ReadFile(filepath.Join(r.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return crerr.Wrapf(err, "read %s", name)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := sonic.ConfigStd.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(season.ErrMalformedStore, "decode %s: %v", name, err)
	}
	return nil
}

func (r *SeasonRepository) writeTemp(name string, value any) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := sonic.ConfigStd.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return "", crerr.Wrapf(err, "encode %s", name)
	}

	f, err := os.CreateTemp(r.dir, name+".tmp-*")
	if err != nil {
		return "", crerr.Wrapf(err, "create temp for %s", name)
	}
	tmp := f.Name()

	if _, err := f.Write(buf.B); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", crerr.Wrapf(err, "write %s", tmp)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", crerr.Wrapf(err, "sync %s", tmp)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", crerr.Wrapf(err, "close %s", tmp)
	}

	return tmp, nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return crerr.Wrapf(err, "open %s", dir)
	}
	defer d.Close()

	// Some filesystems refuse fsync on directories.
	if err := d.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return crerr.Wrapf(err, "sync %s", dir)
	}
	return nil
}
