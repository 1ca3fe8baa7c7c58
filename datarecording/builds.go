package datarecording

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sarchlab/ipgen/emit"
	"github.com/sarchlab/ipgen/generator"
	"github.com/sarchlab/ipgen/hooking"
	"github.com/sarchlab/ipgen/idgen"
)

// BuildTable is the table that holds the build history.
const BuildTable = "builds"

// BuildEntry is one recorded build.
type BuildEntry struct {
	ID        string
	Core      string
	Version   string
	BuildName string
	Root      string
	IPID      uint32
	Params    string
	CreatedAt int64
}

// Time returns when the build was recorded.
func (e BuildEntry) Time() time.Time {
	return time.Unix(e.CreatedAt, 0)
}

// BuildRecorder is a hook that records every emitted build.
type BuildRecorder struct {
	recorder DataRecorder
	ids      idgen.Generator
	clock    func() time.Time
}

// NewBuildRecorder creates the build table if needed and returns the hook.
func NewBuildRecorder(
	r DataRecorder,
	ids idgen.Generator,
	clock func() time.Time,
) (*BuildRecorder, error) {
	if err := r.CreateTable(BuildTable, BuildEntry{}); err != nil {
		return nil, err
	}

	return &BuildRecorder{recorder: r, ids: ids, clock: clock}, nil
}

// Func records the build when a run emits its descriptors.
func (h *BuildRecorder) Func(ctx hooking.HookCtx) {
	if ctx.Pos != generator.HookPosEmitted {
		return
	}

	d := ctx.Item.(emit.Descriptor)
	run := ctx.Detail.(generator.Run)

	params, err := json.Marshal(run.Params.Map())
	if err != nil {
		panic(err)
	}

	err = h.recorder.InsertData(BuildTable, BuildEntry{
		ID:        h.ids.Generate(),
		Core:      run.Core.Name,
		Version:   run.Core.Version,
		BuildName: run.BuildName,
		Root:      d.Paths.Root,
		IPID:      d.Identity.ID,
		Params:    string(params),
		CreatedAt: h.clock().Unix(),
	})
	if err != nil {
		panic(err)
	}
}

// Flush writes the buffered builds.
func (h *BuildRecorder) Flush() error {
	return h.recorder.Flush()
}

// BuildReader lists recorded builds.
type BuildReader struct {
	reader DataReader
}

// OpenBuildReader opens the history at path, which must exist.
func OpenBuildReader(path string) (*BuildReader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no build history: %w", err)
	}

	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}

	return NewBuildReader(r), nil
}

// NewBuildReader wraps a DataReader.
func NewBuildReader(r DataReader) *BuildReader {
	r.MapTable(BuildTable, BuildEntry{})

	return &BuildReader{reader: r}
}

// Builds returns the recorded builds, newest first. An empty core lists all
// cores; a limit of 0 lists everything.
func (r *BuildReader) Builds(
	ctx context.Context,
	core string,
	limit int,
) ([]BuildEntry, error) {
	params := QueryParams{
		OrderBy: "CreatedAt DESC, rowid DESC",
		Limit:   limit,
	}

	if core != "" {
		params.Where = "Core = ?"
		params.Args = []any{core}
	}

	results, err := r.reader.Query(ctx, BuildTable, params)
	if err != nil {
		return nil, err
	}

	entries := make([]BuildEntry, 0, len(results))
	for _, res := range results {
		entries = append(entries, *res.(*BuildEntry))
	}

	return entries, nil
}

// Count returns the number of recorded builds of a core, or of all cores
// when core is empty.
func (r *BuildReader) Count(ctx context.Context, core string) (int, error) {
	if core == "" {
		return r.reader.Count(ctx, BuildTable, "")
	}

	return r.reader.Count(ctx, BuildTable, "Core = ?", core)
}

// Close closes the underlying reader.
func (r *BuildReader) Close() error {
	return r.reader.Close()
}
