package steps

// kmeansVectors clusters vecs into k groups under cosine distance.
// Seeding is deterministic farthest-point: the first vector starts, each
// subsequent centroid is the vector farthest from all chosen so far. Runs at
// most 10 Lloyd iterations. Returns a per-vector assignment and the final
// centroids; empty clusters keep their (stale) centroid and simply receive no
// members.
func kmeansVectors(vecs [][]float32, k int) ([]int, [][]float32) {
	if len(vecs) == 0 {
		return nil, nil
	}
	if k < 1 {
		k = 1
	}
	if k > len(vecs) {
		k = len(vecs)
	}

	centroids := make([][]float32, 0, k)
	centroids = append(centroids, vecs[0])
	for len(centroids) < k {
		bestIdx := 0
		bestDist := -1.0
		for i := range vecs {
			d := 1.0
			for _, c := range centroids {
				dist := 1.0 - cosineSimilarity(vecs[i], c)
				if dist < d {
					d = dist
				}
			}
			if d > bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		centroids = append(centroids, vecs[bestIdx])
	}

	assign := make([]int, len(vecs))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < 10; iter++ {
		changed := false
		members := make([][][]float32, k)
		for i, v := range vecs {
			best := 0
			bestScore := -1.0
			for c := 0; c < k; c++ {
				if s := cosineSimilarity(v, centroids[c]); s > bestScore {
					bestScore = s
					best = c
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
			members[best] = append(members[best], v)
		}
		if !changed {
			break
		}
		for c := 0; c < k; c++ {
			if len(members[c]) == 0 {
				continue
			}
			if mean, ok := meanVector(members[c]); ok && len(mean) > 0 {
				centroids[c] = normalizeUnit(mean)
			}
		}
	}
	return assign, centroids
}
