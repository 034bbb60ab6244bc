// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command atermstat exercises a term store with a random workload and
// reports its statistics, optionally as Prometheus metrics.
package main

func main() {
	execute()
}
