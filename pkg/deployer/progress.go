package deployer

import (
	"io"
	"sync"

	"github.com/ethereum-optimism/optimism/op-service/ioutil"
	"github.com/schollz/progressbar/v3"
)

// StageProgressor renders completed pipeline stages as a bar on w.
func StageProgressor(w io.Writer) ioutil.Progressor {
	var bar *progressbar.ProgressBar
	var init sync.Once
	return func(curr, total int64) {
		init.Do(func() {
			bar = progressbar.NewOptions64(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription("deploying"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		})
		_ = bar.Set64(curr)
	}
}
