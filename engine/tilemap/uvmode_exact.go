//go:build !fix_artifacts

package tilemap

const DefaultUVMode = UVExact
