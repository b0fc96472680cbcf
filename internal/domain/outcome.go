package domain

type Stage string

const (
	StageFetch     Stage = "fetch"
	StageEnrich    Stage = "enrich"
	StagePublish   Stage = "publish"
	StageProvision Stage = "provision"
	StageWrite     Stage = "write"
	StageConsume   Stage = "consume"
)

// Outcome is the result marker every pipeline operation returns instead of
// an error. Ref carries an identifier produced by the operation, such as a
// document ID, when there is one.
type Outcome struct {
	Stage Stage
	Ref   string
	Err   error
}

func Succeeded(stage Stage, ref string) Outcome {
	return Outcome{Stage: stage, Ref: ref}
}

func Failed(stage Stage, err error) Outcome {
	return Outcome{Stage: stage, Err: err}
}

func (o Outcome) OK() bool {
	return o.Err == nil
}
