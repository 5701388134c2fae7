package tx

import "fmt"

func errRebuildUnavailable(chainAlias string) error {
	return fmt.Errorf("tx: no rebuild function attached for chain %q (built outside a chains/* builder?)", chainAlias)
}
