package workflow

import "errors"

// ErrNoTransition is returned when a stage has no mapped transition.
// The legacy tracker silently kept the piece where it was, which hid
// corrupted stage values; here it is a hard error the caller must
// surface.
var ErrNoTransition = errors.New("workflow: no transition defined for stage")

// Transition is a stage/area destination. Area is empty only for the
// terminal FINALIZADA result.
type Transition struct {
	Stage Stage
	Area  Area
}

// Forward returns the next stage and area after a quality approval.
// The only finish-dependent hop is PINTURA_COLOR: gloss pieces detour
// through PULIDO, matte pieces go straight to DESPACHOS.
func Forward(stage Stage, finish Finish) (Transition, error) {
	switch stage {
	case StagePrealistamiento:
		return Transition{StageAlistamiento1, AreaAlistamiento}, nil
	case StageAlistamiento1:
		return Transition{StagePinturaBase, AreaPintura}, nil
	case StagePinturaBase:
		return Transition{StageAlistamiento2, AreaAlistamiento}, nil
	case StageAlistamiento2:
		return Transition{StagePinturaColor, AreaPintura}, nil
	case StagePinturaColor:
		if finish == FinishBrillante {
			return Transition{StagePulido, AreaPulido}, nil
		}
		return Transition{StageDespachos, AreaDespachos}, nil
	case StagePulido:
		return Transition{StageDespachos, AreaDespachos}, nil
	case StageDespachos:
		return Transition{StageEntregas, AreaEntregas}, nil
	case StageEntregas:
		return Transition{StageFinalizada, ""}, nil
	}
	return Transition{}, ErrNoTransition
}

// Backward returns the stage and area a piece goes back to when an
// operator hands it back. It mirrors Forward, including the finish
// dependent predecessor of DESPACHOS. Stages without a predecessor
// (the first stage among them) fall back to PENDIENTE in the area the
// caller supplies, which is how the plant parks a piece that cannot
// move further back.
func Backward(stage Stage, finish Finish, current Area) Transition {
	switch stage {
	case StageAlistamiento1:
		return Transition{StagePrealistamiento, AreaPrealistamiento}
	case StagePinturaBase:
		return Transition{StageAlistamiento1, AreaAlistamiento}
	case StageAlistamiento2:
		return Transition{StagePinturaBase, AreaPintura}
	case StagePinturaColor:
		return Transition{StageAlistamiento2, AreaAlistamiento}
	case StagePulido:
		return Transition{StagePinturaColor, AreaPintura}
	case StageDespachos:
		if finish == FinishBrillante {
			return Transition{StagePulido, AreaPulido}
		}
		return Transition{StagePinturaColor, AreaPintura}
	case StageEntregas:
		return Transition{StageDespachos, AreaDespachos}
	}
	return Transition{StagePendiente, current}
}
