package dataset

// Gate is the one-shot awaitable boundary around dataset loading. Gameplay
// entry points consult Ready and fail closed until the load resolves.
type Gate struct {
	done chan struct{}
	ds   *Dataset
	err  error
}

// LoadAsync starts loading the dataset in the background and returns a gate
// that resolves exactly once.
func LoadAsync(dir, lang string) *Gate {
	g := &Gate{done: make(chan struct{})}
	go func() {
		g.ds, g.err = Load(dir, lang)
		close(g.done)
	}()
	return g
}

// resolvedGate wraps an already-loaded dataset, for tests and synchronous
// callers.
func resolvedGate(ds *Dataset, err error) *Gate {
	g := &Gate{done: make(chan struct{}), ds: ds, err: err}
	close(g.done)
	return g
}

// Resolved returns a gate that is already open over the given dataset.
func Resolved(ds *Dataset) *Gate {
	return resolvedGate(ds, nil)
}

// Pending returns a gate that never resolves, for exercising the
// fail-closed paths in tests.
func Pending() *Gate {
	return &Gate{done: make(chan struct{})}
}

// Ready reports whether the load has finished (successfully or not).
func (g *Gate) Ready() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

// Dataset returns the loaded dataset, or (nil, nil) while loading is still
// in flight.
func (g *Gate) Dataset() (*Dataset, error) {
	if !g.Ready() {
		return nil, nil
	}
	return g.ds, g.err
}

// Wait blocks until the load resolves.
func (g *Gate) Wait() (*Dataset, error) {
	<-g.done
	return g.ds, g.err
}
