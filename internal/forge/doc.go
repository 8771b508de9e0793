// Package forge contains the value types describing Forge module releases:
// module names, dependency constraints, exported resource types, and the
// metadata.json document they are decoded from.
package forge
