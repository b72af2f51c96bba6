//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"meeting-whisper/internal/app/coordinator"
)

func InitializeCoordinator() *coordinator.Coordinator {
	wire.Build(
		coordinator.New,
		provideSettings,
		provideLogger,
		provideTranscriber,
		provideSegmenter,
		provideExtractor,
		provideRunDAO,
	)
	return &coordinator.Coordinator{}
}
