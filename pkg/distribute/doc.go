/*
Package distribute spreads a flat directory of deliverables across a tree of
prefix-named bucket directories.

	NewBASINSCore/                    basinsdata/
	  01010001_census.exe   --->        01010001/
	  01010001_nhd.exe      --->          01010001_census.exe
	  01010006_nhd.exe      --+           01010001_nhd.exe
	                          |         01010006/
	                          +--->       01010006_nhd.exe

🔄 Flow:
1. Begin records the start time and zeroes the counters
2. The source is listed in name order; ignored names and directories are skipped
3. Each entry's bucket is ensured, then the entry is copied over any older copy
4. Finalize logs elapsed time and the file count, on every exit path

⚠️ Failures:
With the abort policy the first failure ends the loop; with the continue
policy every failure is collected in Result.Failures and the loop goes on.
A source that cannot be listed always ends the run before any copy.
*/
package distribute
