//go:build !race

package word2vec

import (
	"context"
	"testing"
)

// Multi-worker training updates the weight matrices without locks, which
// the race detector reports, so this test only builds without -race. The
// single-worker tests keep the training path covered under the detector.
func TestTrainParallelWorkers(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 4

	model, err := Train(context.Background(), clusterCorpus(20), cfg, nil)
	if err != nil {
		t.Fatalf("parallel training failed: %v", err)
	}
	if model.Len() != 4 {
		t.Errorf("expected 4 embedded tokens, got %d", model.Len())
	}
}
