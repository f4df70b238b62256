/*
Package config loads and validates prefixdist run settings.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |   HCL   | |   JSON    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Names the three directories of a migration (source, legacy, target)
- Chooses the run log file and the failure policy
- Holds ignore patterns for source file names

🔄 Flow:
1. Load picks a parser by file extension and fills defaults
2. The command layer overrides fields from flags
3. Validate checks required paths, the policy and the patterns

📝 Example (.hcl):

	source  = "${env.DATA_ROOT}/NewBASINSCore"
	legacy  = "${env.DATA_ROOT}/OldBASINSCore"
	target  = "${env.DATA_ROOT}/basinsdata"
	on_error = "continue"
	ignore  = ["*.tmp", "Thumbs.db"]
*/
package config
