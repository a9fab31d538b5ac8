package metadata

/** Definition for the body of a job. Runs on a worker goroutine. */
type JobStart func() (interface{}, error)

/** Definition for completion of a job. Runs on the goroutine that drains results. */
type JobOnComplete func(result interface{})

/** Definition for failure of a job. Runs on the goroutine that drains results. */
type JobOnFailure func(err error)

/**
 * @brief Describes a job to be run.
 */
type JobTask struct {
	/** @brief A name used in logs. */
	Name string
	/** @brief A function to be invoked when the job starts. Required. */
	OnStart JobStart
	/** @brief A function to be invoked when the job successfully completes. Optional. */
	OnComplete JobOnComplete
	/** @brief A function to be invoked when the job fails. Optional. */
	OnFailure JobOnFailure
}

/**
 * @brief A finished job waiting to be handed back to the owning goroutine.
 */
type JobResultEntry struct {
	Task   JobTask
	Result interface{}
	Err    error
}

// The max number of job results that can be stored at once.
const MAX_JOB_RESULTS int = 512
