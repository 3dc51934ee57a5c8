package services

// User-facing status and error texts.
const (
	StatusBackendConnected    = "✅ Backend connected! Ready to analyze logic expressions."
	StatusBackendDisconnected = "⚠️ Backend not connected. Using demo mode with sample data."
	StatusReady               = "Ready to explore digital logic! Enter a Boolean expression to begin."
	StatusPresetReady         = "Ready to analyze this logic expression!"

	StatusTruthTableWorking = "Generating truth table and analyzing logic gates..."
	StatusKMapWorking       = "Creating Karnaugh map and optimizing logic expression..."
	StatusVerilogWorking    = "Generating Verilog code and running simulation..."

	StatusTruthTableDoneFormat = "Analyzed %d variables with %d combinations"
	StatusKMapDone             = "K-map optimization completed. Check prime implicants!"
	StatusVerilogDone          = "Verilog simulation completed successfully!"

	PromptAnalyze   = "Please enter a Boolean expression to analyze"
	PromptVisualize = "Please enter a Boolean expression to visualize"
	PromptSimulate  = "Please enter a Boolean expression to simulate"

	FallbackTruthTable = "Failed to generate truth table"
	FallbackKMap       = "Failed to generate K-map"
	FallbackVerilog    = "Failed to generate Verilog simulation"
)

// Action kinds, used as metric labels and perf operation names.
const (
	ActionTruthTable = "truth_table"
	ActionKMap       = "kmap"
	ActionVerilog    = "verilog"
	ActionReset      = "reset"
	ActionTheme      = "theme"
	ActionPreset     = "preset"
)
