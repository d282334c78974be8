// Package graphql exposes read-only constellation queries over GraphQL.
package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/discover"
)

// Source is what the schema reads from. *discover.Catalog satisfies it.
type Source interface {
	List() []discover.Entry
	Snapshot(kind discover.Kind, key string) (*discover.Snapshot, error)
}

// refArgs select a constellation; both default to the original.
func refArgs(extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{
		"kind": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: string(discover.KindOriginal)},
		"key":  &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: discover.OriginalKey},
	}
	for name, arg := range extra {
		args[name] = arg
	}
	return args
}

func snapshotFor(src Source, p graphql.ResolveParams) (*discover.Snapshot, error) {
	kindArg, _ := p.Args["kind"].(string)
	key, _ := p.Args["key"].(string)
	kind, err := discover.ParseKind(kindArg)
	if err != nil {
		return nil, fmt.Errorf("kind %q: %w", kindArg, err)
	}
	if kind == discover.KindOriginal {
		key = discover.OriginalKey
	}
	return src.Snapshot(kind, key)
}

func nonNullString() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
}

// GenerateSchema builds the query schema over src.
func GenerateSchema(src Source) (graphql.Schema, error) {
	queryFields := graphql.Fields{
		"health": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return "ok", nil
			},
		},

		"constellations": &graphql.Field{
			Type:        graphql.NewList(summaryType),
			Description: "Every constellation in the catalog, original first",
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return src.List(), nil
			},
		},

		"constellation": &graphql.Field{
			Type: constellationType,
			Args: refArgs(nil),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return snapshotFor(src, p)
			},
		},

		"clusters": &graphql.Field{
			Type: graphql.NewList(clusterType),
			Args: refArgs(nil),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				snap, err := snapshotFor(src, p)
				if err != nil {
					return nil, err
				}
				return snap.Graph.Clusters, nil
			},
		},

		"shortestPath": &graphql.Field{
			Type: pathType,
			Args: refArgs(graphql.FieldConfigArgument{
				"from": nonNullString(),
				"to":   nonNullString(),
			}),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				snap, err := snapshotFor(src, p)
				if err != nil {
					return nil, err
				}
				ids := algorithms.ShortestPath(snap.Adjacency, p.Args["from"].(string), p.Args["to"].(string))
				return pathResult{nodes: lookupAll(snap, ids)}, nil
			},
		},

		"distance": &graphql.Field{
			Type:        graphql.Int,
			Description: "Hop count between two artists, -1 when unreachable",
			Args: refArgs(graphql.FieldConfigArgument{
				"from": nonNullString(),
				"to":   nonNullString(),
			}),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				snap, err := snapshotFor(src, p)
				if err != nil {
					return nil, err
				}
				return algorithms.Distance(snap.Adjacency, p.Args["from"].(string), p.Args["to"].(string)), nil
			},
		},

		"neighbors": &graphql.Field{
			Type: graphql.NewList(neighbourType),
			Args: refArgs(graphql.FieldConfigArgument{
				"id":   nonNullString(),
				"hops": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
			}),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				snap, err := snapshotFor(src, p)
				if err != nil {
					return nil, err
				}
				result, err := algorithms.KHopNeighbours(snap.Adjacency, p.Args["id"].(string), algorithms.KHopOptions{
					MaxHops: p.Args["hops"].(int),
				})
				if err != nil {
					return nil, err
				}
				out := make([]neighbour, 0, result.TotalReachable)
				for hop := 1; hop <= len(result.ByHop); hop++ {
					for _, id := range result.ByHop[hop] {
						out = append(out, neighbour{node: snap.Lookup[id], hops: hop})
					}
				}
				return out, nil
			},
		},

		"search": &graphql.Field{
			Type: graphql.NewList(searchHitType),
			Args: refArgs(graphql.FieldConfigArgument{
				"query": nonNullString(),
				"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: algorithms.DefaultSearchLimit},
			}),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				snap, err := snapshotFor(src, p)
				if err != nil {
					return nil, err
				}
				return algorithms.SearchNodes(p.Args["query"].(string), snap.Graph.Nodes, p.Args["limit"].(int)), nil
			},
		},
	}

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: queryFields,
		}),
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func lookupAll(snap *discover.Snapshot, ids []string) []constellation.Node {
	nodes := make([]constellation.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, snap.Lookup[id])
	}
	return nodes
}
