package tts

import (
	"context"

	"github.com/mirzamitdinovs/vocab-master/internal/logger"
	"github.com/mirzamitdinovs/vocab-master/internal/repository"
)

// BackfillJob generates audio for words that don't have any yet. One run
// processes at most BatchSize words; the nightly schedule and the manual
// trigger both submit fresh jobs until the backlog is drained.
type BackfillJob struct {
	Catalog   repository.CatalogRepository
	Client    *Client
	BatchSize int
}

func (j *BackfillJob) Name() string {
	return "audio-backfill"
}

func (j *BackfillJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if !j.Client.Enabled() {
		log.Debug("tts not configured, skipping backfill")
		return nil
	}

	words, err := j.Catalog.WordsMissingAudio(ctx, j.BatchSize)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		log.Debug("no words missing audio")
		return nil
	}
	log.Info("backfilling audio for %d words", len(words))

	done := 0
	for _, word := range words {
		if ctx.Err() != nil {
			break
		}
		name, err := j.Client.SynthesizeToFile(ctx, word.Korean)
		if err != nil {
			log.Warn("failed to synthesize %q: %v", word.Korean, err)
			continue
		}
		if err := j.Catalog.SetWordAudio(ctx, word.ID, name); err != nil {
			log.Error("failed to store audio path for word %d: %v", word.ID, err)
			continue
		}
		done++
	}
	log.Info("audio backfill run finished: %d/%d", done, len(words))
	return nil
}
