package editor

import (
	"hash/fnv"

	"go.uber.org/zap"

	"github.com/map-editor/internal/domain/datatype"
	"github.com/map-editor/internal/domain/geometry"
)

var typePalette = []string{
	"#e55e5e", "#3bb2d0", "#8a8acb", "#56b881", "#f9886c", "#ed6498", "#50667f", "#fbb03b",
}

// TypeColor - цвет объекта по его типу данных
func TypeColor(t *datatype.ObjectType) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(t.Label()))
	return typePalette[h.Sum32()%uint32(len(typePalette))]
}

// AttachObject привязывает объект данных к объекту карты и перекрашивает его.
// nil отвязывает данные и возвращает цвет по умолчанию.
func (e *Editor) AttachObject(featureID string, obj *datatype.ObjectInstance) error {
	f, err := e.graph.Feature(featureID)
	if err != nil {
		return err
	}

	if obj == nil {
		if err := f.SetDataObject(nil); err != nil {
			return err
		}
		f.Properties().Color = defaultColor(f.Kind())
		e.render(f)
		return nil
	}

	if err := f.SetDataObject(obj); err != nil {
		return err
	}
	if t := obj.Type(); t != nil {
		f.Properties().Color = TypeColor(t)
	}
	e.render(f)
	e.detachFromOthers(obj, f)

	e.logger.Debug("Object attached",
		zap.String("feature_id", featureID),
		zap.String("object_id", obj.ID()))
	return nil
}

// detachFromOthers снимает объект данных с прежнего владельца:
// экземпляр привязан не более чем к одному объекту карты
func (e *Editor) detachFromOthers(obj *datatype.ObjectInstance, holder geometry.Feature) {
	for _, f := range e.graph.Features() {
		if f == holder {
			continue
		}
		do := f.DataObject()
		if do == nil || do.ID() != obj.ID() {
			continue
		}
		if err := f.SetDataObject(nil); err != nil {
			e.logger.Error("Failed to detach object", zap.String("feature_id", f.ID()), zap.Error(err))
			continue
		}
		f.Properties().Color = defaultColor(f.Kind())
		e.render(f)
		e.logger.Debug("Object moved to another feature",
			zap.String("from", f.ID()),
			zap.String("to", holder.ID()))
	}
}

func defaultColor(kind geometry.Kind) string {
	switch kind {
	case geometry.KindPoint:
		return geometry.DefaultPointColor
	case geometry.KindLineString:
		return geometry.DefaultLineColor
	}
	return geometry.DefaultPolygonColor
}
