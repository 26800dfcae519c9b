package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

const sightingsDoc = `[{"countryCode":"036","elephantName":"Kandula","arrivalYear":1900,"story":["s"]}]`

// fakeFetcher serves canned documents; refs listed in gates block until the channel closes.
type fakeFetcher struct {
	docs  map[string]string
	errs  map[string]error
	gates map[string]chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if gate, ok := f.gates[ref]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.errs[ref]; ok {
		return nil, err
	}
	doc, ok := f.docs[ref]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(doc), nil
}

func testSources() Sources {
	return Sources{Boundaries: "world.json", Sightings: "sightings.json", TopologyObject: "countries"}
}

func TestLoadAll(t *testing.T) {
	c := qt.New(t)
	f := &fakeFetcher{docs: map[string]string{
		"world.json":     quantizedTopology,
		"sightings.json": sightingsDoc,
	}}
	res, err := LoadAll(context.Background(), f, testSources())
	c.Assert(err, qt.IsNil)
	c.Assert(res.Entities, qt.HasLen, 3)
	c.Assert(res.Records.Len(), qt.Equals, 1)
}

func TestLoadAllFailure(t *testing.T) {
	c := qt.New(t)
	boom := errors.New("boom")
	f := &fakeFetcher{
		docs: map[string]string{"world.json": quantizedTopology},
		errs: map[string]error{"sightings.json": boom},
	}
	_, err := LoadAll(context.Background(), f, testSources())
	c.Assert(errors.Is(err, ErrDatasetLoad), qt.IsTrue)
	c.Assert(errors.Is(err, boom), qt.IsTrue)

	var le *LoadError
	c.Assert(errors.As(err, &le), qt.IsTrue)
	c.Assert(le.Dataset, qt.Equals, DatasetSightings)
	c.Assert(le.Ref, qt.Equals, "sightings.json")
	c.Assert(err, qt.ErrorMatches, `load sightings dataset "sightings.json": boom`)

	f = &fakeFetcher{docs: map[string]string{"world.json": `{"type":"Nope"}`, "sightings.json": sightingsDoc}}
	_, err = LoadAll(context.Background(), f, testSources())
	c.Assert(errors.As(err, &le), qt.IsTrue)
	c.Assert(le.Dataset, qt.Equals, DatasetBoundaries)
}

func waitDone(c *qt.C, l *Loader) {
	select {
	case <-l.Done():
	case <-time.After(5 * time.Second):
		c.Fatal("loader did not finish")
	}
}

func TestLoaderReadinessGate(t *testing.T) {
	c := qt.New(t)
	gate := make(chan struct{})
	f := &fakeFetcher{
		docs: map[string]string{
			"world.json":     quantizedTopology,
			"sightings.json": sightingsDoc,
		},
		gates: map[string]chan struct{}{"world.json": gate},
	}
	l := NewLoader(f, testSources())
	c.Assert(l.State(), qt.Equals, StateLoading)
	l.Start(context.Background())
	l.Start(context.Background())

	// Sightings resolve immediately; the loader must keep waiting for boundaries.
	time.Sleep(50 * time.Millisecond)
	c.Assert(l.State(), qt.Equals, StateLoading)
	res, err := l.Result()
	c.Assert(res, qt.IsNil)
	c.Assert(err, qt.IsNil)

	close(gate)
	waitDone(c, l)
	c.Assert(l.State(), qt.Equals, StateReady)
	res, err = l.Result()
	c.Assert(err, qt.IsNil)
	c.Assert(res.Entities, qt.HasLen, 3)
}

func TestLoaderFailureState(t *testing.T) {
	c := qt.New(t)
	f := &fakeFetcher{docs: map[string]string{"sightings.json": sightingsDoc}}
	l := NewLoader(f, testSources())
	l.Start(context.Background())
	waitDone(c, l)

	c.Assert(l.State(), qt.Equals, StateFailed)
	c.Assert(l.State().String(), qt.Equals, "failed")
	_, err := l.Result()
	c.Assert(errors.Is(err, os.ErrNotExist), qt.IsTrue)
	c.Assert(errors.Is(err, ErrDatasetLoad), qt.IsTrue)
}

func TestDefaultFetcherReadsLZ4(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	packed, err := Compress([]byte(sightingsDoc))
	c.Assert(err, qt.IsNil)
	path := filepath.Join(dir, "sightings.json.lz4")
	c.Assert(os.WriteFile(path, packed, 0o644), qt.IsNil)

	data, err := NewFetcher().Fetch(context.Background(), path)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, sightingsDoc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFetcher().Fetch(ctx, path)
	c.Assert(errors.Is(err, context.Canceled), qt.IsTrue)
}
