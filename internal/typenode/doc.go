// Package typenode converts types to and from a textual tree that can be
// stored in config values, logs or cache files and resolved again later.
//
// Each node is one line holding the module name and the simple type name,
// separated by a space. Generic arguments follow on lines indented by one
// more tab. Arrays are written as a single "[]" line with the element type
// as their only child:
//
//	core Dictionary
//		core String
//		core List
//			core Int
//
// Resolution only succeeds for types registered in the universe it is
// given; anything else is reported as typesys.ErrUntrustedType.
package typenode
