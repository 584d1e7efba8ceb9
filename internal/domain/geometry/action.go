package geometry

// ActionType - последствие удаления вершины, которое должен обработать вызывающий код
type ActionType string

const (
	ActionDoNothing     ActionType = "do_nothing"
	ActionDeleteFeature ActionType = "delete_feature"
	ActionDeleteRing    ActionType = "delete_ring"
)

// Action - результат RemoveVertex.
// Для delete_ring заполнены RingIndex и OrphanedPoints: вершины кольца, которые
// после удаления кольца не будут принадлежать ни одному объекту.
type Action struct {
	Type           ActionType
	RingIndex      int
	OrphanedPoints []*Point
}

func doNothing() Action {
	return Action{Type: ActionDoNothing}
}

func deleteFeature() Action {
	return Action{Type: ActionDeleteFeature}
}
