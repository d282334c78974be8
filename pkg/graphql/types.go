package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/discover"
)

// field builds a non-argument field whose value is read from a typed source.
func field[S any](t graphql.Output, get func(S) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			switch src := p.Source.(type) {
			case S:
				return get(src), nil
			case *S:
				if src == nil {
					return nil, nil
				}
				return get(*src), nil
			}
			return nil, nil
		},
	}
}

var artistType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Artist",
	Description: "An artist node of a constellation",
	Fields: graphql.Fields{
		"id":           field(graphql.NewNonNull(graphql.ID), func(n constellation.Node) any { return n.ID }),
		"name":         field(graphql.NewNonNull(graphql.String), func(n constellation.Node) any { return n.Name }),
		"genres":       field(graphql.NewList(graphql.String), func(n constellation.Node) any { return n.Genres }),
		"size":         field(graphql.Float, func(n constellation.Node) any { return n.Size }),
		"color":        field(graphql.String, func(n constellation.Node) any { return n.Color }),
		"primaryGenre": field(graphql.String, func(n constellation.Node) any { return n.PrimaryGenre }),
		"rank":         field(graphql.Int, func(n constellation.Node) any { return n.Rank }),
		"popularity":   field(graphql.Int, func(n constellation.Node) any { return n.Popularity }),
		"image":        field(graphql.String, func(n constellation.Node) any { return n.ImageURL }),
		"url":          field(graphql.String, func(n constellation.Node) any { return n.ProfileURL }),
		"playcount":    field(graphql.Int, func(n constellation.Node) any { return n.PlayCount }),
		"ownership":    field(graphql.String, func(n constellation.Node) any { return string(n.Ownership) }),
	},
})

var linkType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Link",
	Fields: graphql.Fields{
		"source":       field(graphql.NewNonNull(graphql.ID), func(l constellation.Link) any { return l.Source }),
		"target":       field(graphql.NewNonNull(graphql.ID), func(l constellation.Link) any { return l.Target }),
		"type":         field(graphql.String, func(l constellation.Link) any { return string(l.Kind) }),
		"value":        field(graphql.Float, func(l constellation.Link) any { return l.Weight }),
		"sharedGenres": field(graphql.NewList(graphql.String), func(l constellation.Link) any { return l.SharedGenres }),
		"visible":      field(graphql.Boolean, func(l constellation.Link) any { return l.Visible }),
	},
})

var clusterType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GenreCluster",
	Fields: graphql.Fields{
		"id":         field(graphql.NewNonNull(graphql.ID), func(c constellation.Cluster) any { return c.ID }),
		"name":       field(graphql.String, func(c constellation.Cluster) any { return c.Name }),
		"nodeCount":  field(graphql.Int, func(c constellation.Cluster) any { return c.NodeCount }),
		"colorIndex": field(graphql.Int, func(c constellation.Cluster) any { return c.ColorIndex }),
		"color":      field(graphql.String, func(c constellation.Cluster) any { return c.Color }),
	},
})

var statsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GraphStats",
	Fields: graphql.Fields{
		"nodes":           field(graphql.Int, func(s constellation.Stats) any { return s.Nodes }),
		"links":           field(graphql.Int, func(s constellation.Stats) any { return s.Links }),
		"similarityLinks": field(graphql.Int, func(s constellation.Stats) any { return s.SimilarityLinks }),
		"genreLinks":      field(graphql.Int, func(s constellation.Stats) any { return s.GenreLinks }),
		"hiddenLinks":     field(graphql.Int, func(s constellation.Stats) any { return s.HiddenLinks }),
		"clusters":        field(graphql.Int, func(s constellation.Stats) any { return s.Clusters }),
	},
})

var constellationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Constellation",
	Fields: graphql.Fields{
		"kind":     field(graphql.String, func(s *discover.Snapshot) any { return string(s.Key.Kind) }),
		"key":      field(graphql.String, func(s *discover.Snapshot) any { return s.Key.ID }),
		"nodes":    field(graphql.NewList(artistType), func(s *discover.Snapshot) any { return s.Graph.Nodes }),
		"links":    field(graphql.NewList(linkType), func(s *discover.Snapshot) any { return s.Graph.Links }),
		"clusters": field(graphql.NewList(clusterType), func(s *discover.Snapshot) any { return s.Graph.Clusters }),
		"stats":    field(statsType, func(s *discover.Snapshot) any { return s.Graph.Stats() }),
	},
})

var summaryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ConstellationSummary",
	Fields: graphql.Fields{
		"kind":            field(graphql.String, func(e discover.Entry) any { return string(e.Kind) }),
		"key":             field(graphql.String, func(e discover.Entry) any { return e.Key }),
		"name":            field(graphql.String, func(e discover.Entry) any { return e.Name }),
		"username":        field(graphql.String, func(e discover.Entry) any { return e.Username }),
		"fusionType":      field(graphql.String, func(e discover.Entry) any { return string(e.FusionType) }),
		"artistCount":     field(graphql.Int, func(e discover.Entry) any { return e.Stats.ArtistCount }),
		"connectionCount": field(graphql.Int, func(e discover.Entry) any { return e.Stats.ConnectionCount }),
		"topGenres":       field(graphql.NewList(graphql.String), func(e discover.Entry) any { return e.Stats.TopGenres }),
	},
})

// pathResult is the source of PathResult objects.
type pathResult struct {
	nodes []constellation.Node
}

var pathType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PathResult",
	Fields: graphql.Fields{
		"found": field(graphql.Boolean, func(r pathResult) any { return len(r.nodes) > 0 }),
		"hops": field(graphql.Int, func(r pathResult) any {
			if len(r.nodes) == 0 {
				return -1
			}
			return len(r.nodes) - 1
		}),
		"path": field(graphql.NewList(artistType), func(r pathResult) any { return r.nodes }),
	},
})

var searchHitType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SearchHit",
	Fields: graphql.Fields{
		"score":  field(graphql.Int, func(r algorithms.SearchResult) any { return r.Score }),
		"artist": field(artistType, func(r algorithms.SearchResult) any { return r.Node }),
	},
})

var neighbourType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Neighbour",
	Fields: graphql.Fields{
		"hops":   field(graphql.Int, func(n neighbour) any { return n.hops }),
		"artist": field(artistType, func(n neighbour) any { return n.node }),
	},
})

type neighbour struct {
	node constellation.Node
	hops int
}
