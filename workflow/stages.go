package workflow

// Stage is the position of a piece inside the production sequence.
// The wire values are the ones the plant has always used on its boards
// and printed paperwork, so they stay in Spanish.
type Stage string

const (
	StagePendiente       Stage = "PENDIENTE"
	StagePrealistamiento Stage = "PREALISTAMIENTO"
	StageAlistamiento1   Stage = "ALISTAMIENTO_1"
	StagePinturaBase     Stage = "PINTURA_BASE"
	StageAlistamiento2   Stage = "ALISTAMIENTO_2"
	StagePinturaColor    Stage = "PINTURA_COLOR"
	StagePulido          Stage = "PULIDO"
	StageDespachos       Stage = "DESPACHOS"
	StageEntregas        Stage = "ENTREGAS"
	StageEnRevision      Stage = "EN_REVISION"
	StageFinalizada      Stage = "FINALIZADA"
)

// Area is the physical station a piece is sitting in. One area can own
// more than one stage (PINTURA owns both coats).
type Area string

const (
	AreaPrealistamiento Area = "PREALISTAMIENTO"
	AreaAlistamiento    Area = "ALISTAMIENTO"
	AreaPintura         Area = "PINTURA"
	AreaPulido          Area = "PULIDO"
	AreaDespachos       Area = "DESPACHOS"
	AreaEntregas        Area = "ENTREGAS"
)

// Finish decides whether a piece passes through PULIDO.
type Finish string

const (
	FinishBrillante Finish = "BRILLANTE"
	FinishMate      Finish = "MATE"
)

// AllAreas in plant order, used by dashboards to emit stable counters.
var AllAreas = []Area{
	AreaPrealistamiento,
	AreaAlistamiento,
	AreaPintura,
	AreaPulido,
	AreaDespachos,
	AreaEntregas,
}

// managedStages maps each area to the working stages it supervises, in
// the order a leader wants them listed. EN_REVISION and FINALIZADA are
// never "managed": review is a gate, finished is terminal.
var managedStages = map[Area][]Stage{
	AreaPrealistamiento: {StagePrealistamiento},
	AreaAlistamiento:    {StageAlistamiento1, StageAlistamiento2},
	AreaPintura:         {StagePinturaBase, StagePinturaColor},
	AreaPulido:          {StagePulido},
	AreaDespachos:       {StageDespachos},
	AreaEntregas:        {StageEntregas},
}

// stageAreas is the total stage -> area table. Every named working
// stage resolves here; no keyword matching against stage names.
var stageAreas = map[Stage]Area{
	StagePrealistamiento: AreaPrealistamiento,
	StageAlistamiento1:   AreaAlistamiento,
	StageAlistamiento2:   AreaAlistamiento,
	StagePinturaBase:     AreaPintura,
	StagePinturaColor:    AreaPintura,
	StagePulido:          AreaPulido,
	StageDespachos:       AreaDespachos,
	StageEntregas:        AreaEntregas,
}

// ManagedStages returns the stages supervised by a leader of the given
// area. The returned slice must not be mutated.
func ManagedStages(area Area) []Stage {
	return managedStages[area]
}

// ManagesStage reports whether the stage belongs to the area's queue.
func ManagesStage(area Area, stage Stage) bool {
	for _, s := range managedStages[area] {
		if s == stage {
			return true
		}
	}
	return false
}

// ResolveAreaForStage returns the area a working stage belongs to. It
// is total over the working stages; ok is false for PENDIENTE,
// EN_REVISION, FINALIZADA and anything unknown.
func ResolveAreaForStage(stage Stage) (Area, bool) {
	area, ok := stageAreas[stage]
	return area, ok
}

// ValidArea reports whether the string names a known area.
func ValidArea(area Area) bool {
	_, ok := managedStages[area]
	return ok
}
