package worker

const ServiceName = "seedpass-worker"
