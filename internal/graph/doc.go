// Package graph stores the category hierarchy of a wiki as a directed graph.
//
// Nodes are keyed by category name and carry the page addresses directly
// classified under the category and the canonical address of the category
// page. Edges point from a parent category to a subcategory. The graph is
// not a tree: a category may have several parents, and cycles caused by
// mis-categorizations on the wiki are tolerated until an operator removes
// the offending edges.
//
// Node order and successor order are insertion order. Traversals, cycle
// enumeration and serialization are therefore deterministic for a given
// sequence of mutations.
//
// The persisted form is a JSON object holding the root node, the root
// category address and the graph in the networkx node-link "adjacency"
// layout:
//
//	{
//	    "root_node": "Old_School_RuneScape_Wiki",
//	    "root_category_url": "https://oldschool.runescape.wiki/w/Category:Content",
//	    "graph": {
//	        "directed": true,
//	        "multigraph": false,
//	        "graph": {},
//	        "nodes": [{"pages": [], "id": "Old_School_RuneScape_Wiki"}, ...],
//	        "adjacency": [[{"id": "Content"}], ...]
//	    }
//	}
package graph
