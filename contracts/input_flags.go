package contracts

type InputFlags struct {
	InputPath  string
	OutputPath string
	LogLevel   string
}
