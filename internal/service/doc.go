// Package service contains the application services that orchestrate
// domain entities, stores, and authentication primitives.
package service
