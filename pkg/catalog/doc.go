// Package catalog reads and writes skill tree definitions.
//
// # Overview
//
// A catalog is a static file describing one skill tree: the player's
// resources, the skills and the prerequisite connections between them. JSON,
// YAML and TOML encodings carry the same fields; the format is picked from
// the file extension (.json, .yaml/.yml, .toml).
//
// # Format
//
//	id = "combat-skills"
//	name = "Combat Mastery"
//	player_level = 10
//	available_points = 15
//
//	[[skills]]
//	id = "sword-mastery"
//	name = "Sword Mastery"
//	icon = "sword"
//	max_level = 5
//	cost = 3
//
//	[[skills]]
//	id = "shield-defense"
//	max_level = 3
//	cost = 2
//	required_skills = ["sword-mastery"]
//
// Required per skill: id, max_level, cost. Optional: name, description, icon
// (a symbolic key), level (defaults to 0) and required_skills. A
// required_level field is accepted and kept on [skilltree.Skill] but has no
// effect on progression.
//
// The connections array is optional. Every required skill implies a
// connection from the requirement to the skill; explicit connections come
// first, implied ones are appended, and duplicates are dropped. A catalog
// without an id gets a random UUID. Unknown fields are rejected.
//
// # Loading
//
// [Load] reads a file and [Read] any io.Reader. Both return a tree validated
// by [skilltree.New]. [Watch] reloads a file whenever it changes.
//
// # Export
//
// [Write] and [Export] encode a tree with explicit connections. Reading the
// output back yields the same tree.
//
// # Search
//
// [Search] fuzzy-matches skill names and IDs for pickers and the CLI.
package catalog
