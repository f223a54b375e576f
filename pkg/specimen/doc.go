// Package specimen builds the specimen hierarchy of a dataset version.
//
// # Overview
//
// A dataset version studies subjects, subject groups, tissue samples and tissue
// sample collections. Specimens are linked by "part of" relations (a subject of a
// group) and their states by "descended from" relations (a tissue sample taken from
// a subject state). Build turns this graph into a tree rooted at a synthetic
// "Specimen" node:
//
//	root, overview := specimen.Build(dv.ID, dv.StudiedSpecimen, report)
//	doc.SpecimenBySubject = root
//	doc.SpecimenIDs = overview.AllSpecimenIDs()
//
// Specimens having a single state are merged with it into one node. Cycles in the
// source data are broken at the first repeated instance and reported.
//
// The root carries a color legend and an Overview aggregating species, sex, strains
// and counts across the whole tree.
package specimen
