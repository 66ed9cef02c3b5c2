package appcontext

const (
	EnvCLI Env = iota
	EnvTest
)

type Env int

type Ctx struct {
	Env Env

	// Debug is set by the --debug flag and forces verbose logging regardless of configuration.
	Debug bool
}

func Declare(env Env) Ctx {
	return Ctx{
		Env: env,
	}
}

func (c Ctx) WithDebug(debug bool) Ctx {
	c.Debug = debug
	return c
}
