package outfit

import (
	"errors"
	"fmt"

	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

// Stage names a step of the generation pipeline.
type Stage string

const (
	StageResolvingWeather    Stage = "resolving_weather"
	StageReadingPreferences  Stage = "reading_preferences"
	StageComputingNextNumber Stage = "computing_next_number"
	StageBuildingPrompt      Stage = "building_prompt"
	StageCallingModel        Stage = "calling_model"
	StageParsing             Stage = "parsing"
	StagePersisting          Stage = "persisting"
	StageDone                Stage = "done"
)

// StageError records the stage in which a batch failed. Kind is the error code.
type StageError struct {
	Stage Stage
	Kind  string
	// Persisted counts outfits written before the failure.
	Persisted int
	Err       error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func failAt(stage Stage, err error) error {
	return &StageError{Stage: stage, Kind: apperrors.CodeOf(err), Err: err}
}

// FailedStage extracts the stage from a generation error.
func FailedStage(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}
	return "", false
}
