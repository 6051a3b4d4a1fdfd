package collision

// ContactRadius is the largest component of the collider's bounding extent.
// Every entity is treated as a bounding sphere of this radius for sampled tests.
// It is recomputed on every call; hosts with static geometry may cache upstream.
func ContactRadius(c Collider) float64 {
	return c.Extent().MaxComponent()
}
