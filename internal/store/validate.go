package store

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// exportSchema constrains export documents before any row is written. The
// schema rejects structural problems early (bad kinds, non-rational strings,
// out-of-range members); semantic soundness is the verifier's job.
const exportSchema = `
#Rat: string & =~"^-?[0-9]+(/[1-9][0-9]*)?$"

#Members: [...int & >=0 & <16]

#Beta: {
	step?: int & >=0
	x:     int & >=0 & <16
	y:     int & >=0 & <16
	value: #Rat
}

#Objective: {
	kind:        "freq" | "neg_freq" | "marginal" | "neg_marginal"
	ballot:      #Members
	alternative: int & >=0 & <16
}

#Certificate: {
	key:       string & !=""
	n:         int & >0 & <=16
	k:         int & >0 & <=16
	committee: #Members
	deviation: #Members
	objective: #Objective
	claimed?:  #Rat
	alpha:     #Rat
	gamma:     #Rat
	beta: [...#Beta]
}

#Step: {
	committee: #Members
	deviation: #Members
}

#Farkas: {
	key:     string & !=""
	n:       int & >0 & <=16
	k:       int & >0 & <=16
	history: [...#Step]
	alpha:   #Rat
	gammas: [...#Rat]
	betas: [...#Beta]
}

#Export: {
	version: 1
	certificates: [...#Certificate]
	farkas: [...#Farkas]
}
`

// ValidateExport checks an export document against the schema.
func ValidateExport(doc *ExportDoc) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(exportSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile export schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Export"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup export schema: %w", err)
	}

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode export document: %w", err)
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("export document invalid: %w", err)
	}
	return nil
}
