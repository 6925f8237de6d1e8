package geodata

type ZoomLevel float64

const (
	MinZoomLevel ZoomLevel = 0
	MaxZoomLevel ZoomLevel = 24
)

type Tag struct {
	Key   string
	Value string
}

type Tags []*Tag

func (t Tags) GetByKey(key string) (string, bool) {
	for _, tag := range t {
		if tag.Key == key {
			return tag.Value, true
		}
	}

	return "", false
}

// Entity is one geographic object from a data source.
type Entity interface {
	GlobalID() int64
	Tags() Tags
}

// Area is an entity with a geometry that is either closed (polygon-like)
// or open (linestring-like).
type Area interface {
	Entity
	IsClosed() bool
}

type Way struct {
	ID      int64
	Closed  bool
	WayTags Tags
}

func (w *Way) GlobalID() int64 {
	return w.ID
}

func (w *Way) IsClosed() bool {
	return w.Closed
}

func (w *Way) Tags() Tags {
	return w.WayTags
}
