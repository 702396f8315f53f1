package fetch

import "os/exec"

var lookPath = func(binary string) error {
	_, err := exec.LookPath(binary)
	return err
}
