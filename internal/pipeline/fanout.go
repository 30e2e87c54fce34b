package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/LaykenV/teach-magic-server/internal/domain"
)

type illustrationJob struct {
	index  int
	prompt string
}

// illustrate renders images for the first fanoutLimit slides that carry an
// image prompt and patches the resulting URLs into the slice. Each slide is
// handled by its own goroutine; a failed slide is logged and left without an
// image. Goroutines write to distinct indices, so no lock is needed.
func (s *Service) illustrate(ctx context.Context, creationID string, slides domain.SlideList) {
	if s.fanoutLimit == 0 || s.images == nil {
		return
	}
	jobs := make([]illustrationJob, 0, s.fanoutLimit)
	for i, slide := range slides {
		prompt, ok := domain.ImagePromptOf(slide)
		if !ok || prompt == "" {
			continue
		}
		jobs = append(jobs, illustrationJob{index: i, prompt: prompt})
		if len(jobs) == s.fanoutLimit {
			break
		}
	}

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(job illustrationJob) {
			defer wg.Done()
			data, err := s.images.Generate(ctx, job.prompt)
			if err != nil {
				s.log.Warn().Err(err).Str("creation_id", creationID).Int("slide_index", job.index).Msg("image generation failed, slide stays unillustrated")
				return
			}
			key := fmt.Sprintf("%s-%d.png", creationID, job.index)
			url, err := s.store.Write(ctx, key, data)
			if err != nil {
				s.log.Warn().Err(err).Str("creation_id", creationID).Str("key", key).Msg("image write failed, slide stays unillustrated")
				return
			}
			slides[job.index] = domain.WithImageURL(slides[job.index], url)
		}(job)
	}
	wg.Wait()
}
