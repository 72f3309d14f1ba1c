package constants

const (
	// ShortDescription is a short description of the application used in the CLI.
	ShortDescription = "Compile declarative warehouse pipelines into scheduler task graphs"

	// LongDescription is a long description of the application used in the CLI.
	LongDescription = `bqpipe: load, transform and extract pipelines for the data warehouse.

A pipeline document describes which files to load, which query to run and
where to extract the results. bqpipe decides which stages are needed, wires
them into a task graph and registers it by name.

Common commands:

  # Compile a pipeline and register it
  bqpipe pipeline --name daily -f daily.yaml

  # Compile and print the scheduler program
  bqpipe pipeline2 --name daily -f daily.yaml

  # Inspect registered pipelines
  bqpipe pipeline list
  bqpipe pipeline show daily`
)
