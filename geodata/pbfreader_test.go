package geodata

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
)

func Test_WayFromOSM(t *testing.T) {
	type args struct {
		osmWay *osm.Way
	}
	tests := []struct {
		name string
		args args
		want *Way
	}{
		{
			"open way",
			args{&osm.Way{
				ID:    100,
				Tags:  osm.Tags{{Key: "highway", Value: "residential"}},
				Nodes: osm.WayNodes{{ID: 1}, {ID: 2}, {ID: 3}},
			}},
			&Way{
				ID:      100,
				Closed:  false,
				WayTags: Tags{{Key: "highway", Value: "residential"}},
			},
		},
		{
			"closed way (first and last node refs equal)",
			args{&osm.Way{
				ID:    101,
				Tags:  osm.Tags{{Key: "building", Value: "yes"}},
				Nodes: osm.WayNodes{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 1}},
			}},
			&Way{
				ID:      101,
				Closed:  true,
				WayTags: Tags{{Key: "building", Value: "yes"}},
			},
		},
		{
			"single node way is not closed",
			args{&osm.Way{
				ID:    102,
				Nodes: osm.WayNodes{{ID: 1}},
			}},
			&Way{
				ID:      102,
				Closed:  false,
				WayTags: Tags{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WayFromOSM(tt.args.osmWay))
		})
	}
}

func Test_Tags_GetByKey(t *testing.T) {
	tags := Tags{
		{Key: "highway", Value: "residential"},
		{Key: "oneway", Value: "yes"},
	}

	val, ok := tags.GetByKey("oneway")
	assert.True(t, ok)
	assert.Equal(t, "yes", val)

	_, ok = tags.GetByKey("surface")
	assert.False(t, ok)
}
