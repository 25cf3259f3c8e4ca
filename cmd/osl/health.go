package main

func init() {
	rootCmd.AddCommand(actionCommand("health", "Check that the backend is up", "health"))
}
