package geodata

import (
	"context"
	"io"
	"runtime"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// LoadWaysFromPBF scans a whole OSM PBF file and returns the ways in it,
// in file order.
func LoadWaysFromPBF(file io.Reader) ([]*Way, errorsx.Error) {
	scanner := osmpbf.New(context.Background(), file, runtime.NumCPU())
	defer scanner.Close()

	var ways []*Way
	for scanner.Scan() {
		osmWay, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}

		ways = append(ways, WayFromOSM(osmWay))
	}

	err := scanner.Err()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return ways, nil
}

// WayFromOSM converts a decoded OSM way. The way counts as closed when its
// first and last node refs are the same node.
func WayFromOSM(osmWay *osm.Way) *Way {
	tags := make(Tags, 0, len(osmWay.Tags))
	for _, tag := range osmWay.Tags {
		tags = append(tags, &Tag{Key: tag.Key, Value: tag.Value})
	}

	closed := false
	nodesCount := len(osmWay.Nodes)
	if nodesCount > 1 && osmWay.Nodes[0].ID == osmWay.Nodes[nodesCount-1].ID {
		closed = true
	}

	return &Way{
		ID:      int64(osmWay.ID),
		Closed:  closed,
		WayTags: tags,
	}
}
