/*
Package config loads the optional per-project settings for jetmigrate.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   HCL     | |  YAML   | |   JSON    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Reads .jetmigrate.hcl (or a yaml/json file given with --config)
- Rejects unknown fields so typos surface immediately
- Validates ignore globs and build logic dirs before any file is touched

🔄 Flow:
1. The command resolves the config path (default .jetmigrate.hcl in the root)
2. The parser is picked by file extension from the registry
3. The parsed Config is validated
4. Command line flags override whatever the file set

A missing default file is not an error; the built in defaults apply.

🔍 Example:

	threads          = num_cpu / 2
	ignore           = ["third_party/**", "app/generated"]
	build_logic_dirs = ["buildSrc", "build-logic"]
	strict           = true
*/
package config
