package domain

// Stage is the position of a draft inside the room-creation flow.
type Stage int

const (
	StageIdle Stage = iota
	StageAwaitingHost
	StageAwaitingCode
	StageAwaitingMap
	StageAwaitingMode
)

func (s Stage) String() string {
	switch s {
	case StageAwaitingHost:
		return "awaiting_host"
	case StageAwaitingCode:
		return "awaiting_code"
	case StageAwaitingMap:
		return "awaiting_map"
	case StageAwaitingMode:
		return "awaiting_mode"
	default:
		return "idle"
	}
}

// Draft is the transient per-user state of an in-progress room creation.
// It lives only in memory and is destroyed on commit, cancel, or restart.
type Draft struct {
	Owner string
	Stage Stage
	Host  string
	Code  string
	Map   string
	Mode  string
}
