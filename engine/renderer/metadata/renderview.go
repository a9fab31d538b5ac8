package metadata

/**
 * @brief One object's slice of a batch.
 */
type RenderView struct {
	/** @brief The object this view was produced for. */
	ObjectID string
	/** @brief The batch holding the geometry. */
	BatchID string
	/** @brief Slot of this view inside its batch. */
	Index int
	/** @brief First element of the range. */
	Start uint32
	/** @brief Number of elements in the range. */
	Count uint32
	/** @brief Material grouping key. 0 means no material. */
	MaterialKey  uint64
	GeometryType GeometryType
}

/** @brief One past the last element of the range. */
func (rv RenderView) End() uint32 {
	return rv.Start + rv.Count
}

func (rv RenderView) Ref() RenderViewRef {
	return RenderViewRef{BatchID: rv.BatchID, Index: rv.Index}
}

/**
 * @brief Identifies a render view without pointing into its batch.
 */
type RenderViewRef struct {
	BatchID string
	Index   int
}
