/*
Package operation runs a migration from start to finish.

	+------------+     +------------+     +-------------+
	|   Lister   | --> | Dispatcher | --> | Worker pool |
	| (git)      |     | round robin|     | (processor) |
	+------------+     +------------+     +------+------+
	                                             |
	                                      +------+------+
	                                      |  Reporter   |
	                                      +-------------+

🎯 Purpose:
- Loads the mapping tables once and shares them read only with every worker
- Feeds candidate files to the pool and drains the results concurrently
- Produces the Summary the command uses for its exit status

🔄 Flow:
1. Tables and the file filter are built up front; failures stop the run
2. Workers start, each with its own input queue
3. The reporter starts draining the shared result queue
4. The dispatcher lists, filters and hands out files, then closes every input
5. The last worker to exit closes the result queue, ending the reporter

Per-file failures never stop the run. They are counted in the Summary and
printed as they arrive.
*/
package operation
